// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package discover extracts interception targets (named types along with
// their constructors and methods) from type-checked Go packages.
package discover

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"

	"github.com/DataDog/intercept/internal/intercept/enhance"
	"github.com/DataDog/intercept/internal/intercept/signature"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
)

const (
	// IgnoreDirective excludes the function or type it decorates from
	// discovery.
	IgnoreDirective = "//intercept:ignore"

	// ConstructorPrefix is the name prefix of package-level functions treated
	// as constructors of the type they return.
	ConstructorPrefix = "New"
)

// Load loads the packages matching patterns, relative to dir, with everything
// [Targets] and [typeinfo.FromPackages] need.
func Load(ctx context.Context, dir string, patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    typeinfo.LoadMode | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("packages.Load %q: %w", patterns, err)
	}

	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading %q:\n%s", patterns, strings.Join(errs, "\n"))
	}
	return pkgs, nil
}

// Targets lists the named, non-interface types declared in pkgs with their
// constructors and methods, in declaration order.
func Targets(pkgs []*packages.Package) ([]enhance.Target, error) {
	var res []enhance.Target
	for _, pkg := range pkgs {
		targets, err := packageTargets(pkg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		res = append(res, targets...)
	}
	return res, nil
}

var errNoTypes = errors.New("package was not loaded with type information")

type collector struct {
	pkg     *packages.Package
	order   []string
	targets map[string]*enhance.Target
}

func packageTargets(pkg *packages.Package) ([]enhance.Target, error) {
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, errNoTypes
	}

	c := collector{
		pkg:     pkg,
		targets: make(map[string]*enhance.Target),
	}

	// Types first, so that members can be attached regardless of the file
	// order they are declared in.
	files := make([]*dst.File, len(pkg.Syntax))
	decs := make([]*decorator.Decorator, len(pkg.Syntax))
	for i, astFile := range pkg.Syntax {
		dec := decorator.NewDecorator(pkg.Fset)
		file, err := dec.DecorateFile(astFile)
		if err != nil {
			return nil, err
		}
		files[i], decs[i] = file, dec
		c.collectTypes(dec, file)
	}
	for i, file := range files {
		c.collectMembers(decs[i], file)
	}

	res := make([]enhance.Target, 0, len(c.order))
	for _, name := range c.order {
		res = append(res, *c.targets[name])
	}
	log.Debugf("Discovered %d types in %s", len(res), pkg.PkgPath)
	return res, nil
}

func (c *collector) collectTypes(dec *decorator.Decorator, file *dst.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*dst.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range gen.Specs {
			spec, ok := spec.(*dst.TypeSpec)
			if !ok {
				continue
			}
			astSpec, _ := dec.Ast.Nodes[spec].(*ast.TypeSpec)
			if astSpec == nil {
				continue
			}
			tn, _ := c.pkg.TypesInfo.Defs[astSpec.Name].(*types.TypeName)
			if tn == nil || tn.IsAlias() || types.IsInterface(tn.Type()) {
				continue
			}
			if hasDirective(gen.Decs.Start, IgnoreDirective) || hasDirective(spec.Decs.Start, IgnoreDirective) {
				continue
			}
			name := qualifiedName(tn)
			c.order = append(c.order, name)
			c.targets[name] = &enhance.Target{Type: name}
		}
	}
}

func (c *collector) collectMembers(dec *decorator.Decorator, file *dst.File) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*dst.FuncDecl)
		if !ok || hasDirective(fn.Decs.Start, IgnoreDirective) {
			continue
		}
		astFn, _ := dec.Ast.Nodes[fn].(*ast.FuncDecl)
		if astFn == nil {
			continue
		}
		obj, _ := c.pkg.TypesInfo.Defs[astFn.Name].(*types.Func)
		if obj == nil {
			continue
		}
		sig := obj.Type().(*types.Signature)

		if recv := sig.Recv(); recv != nil {
			owner := namedOf(recv.Type())
			if target := c.target(owner); target != nil {
				target.Members = append(target.Members, signature.NewMethod(target.Type, obj.Name(), params(sig)...))
			}
			continue
		}

		if !strings.HasPrefix(obj.Name(), ConstructorPrefix) || sig.Results().Len() == 0 {
			continue
		}
		owner := namedOf(sig.Results().At(0).Type())
		if target := c.target(owner); target != nil {
			target.Members = append(target.Members, signature.NewConstructor(target.Type, params(sig)...))
		}
	}
}

func (c *collector) target(named *types.Named) *enhance.Target {
	if named == nil || named.Obj().Pkg() != c.pkg.Types {
		return nil
	}
	return c.targets[qualifiedName(named.Obj())]
}

// namedOf returns the named type of t or *t, if any.
func namedOf(t types.Type) *types.Named {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, _ := t.(*types.Named)
	if named == nil {
		return nil
	}
	return named.Origin()
}

func qualifiedName(tn *types.TypeName) string {
	return tn.Pkg().Path() + "." + tn.Name()
}

func params(sig *types.Signature) []string {
	res := make([]string, sig.Params().Len())
	for i := range res {
		res[i] = types.TypeString(sig.Params().At(i).Type(), nil)
	}
	return res
}

func hasDirective(decs dst.Decorations, directive string) bool {
	for _, line := range decs {
		if line == directive || strings.HasPrefix(line, directive+" ") {
			return true
		}
	}
	return false
}
