// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package typeinfo

import (
	"go/ast"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the minimum [packages.LoadMode] required by [FromPackages].
const LoadMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedImports

// AnnotationDirective introduces an annotation in a type's doc comment:
//
//	//intercept:annotate Traced
//	type Client struct{ ... }
const AnnotationDirective = "//intercept:annotate "

// Packages is a [Universe] backed by go/types information. Type names use the
// [types.TypeString] format with fully qualified package paths, for example
// "net/url.URL" or "*github.com/redis/go-redis/v9.Client".
type Packages struct {
	named       map[string]types.Type
	interfaces  []string
	annotations map[string][]string
}

var _ Universe = (*Packages)(nil)

// FromPackages indexes every named type declared in pkgs and in the packages
// they (transitively) import. The packages must have been loaded with at
// least [LoadMode].
func FromPackages(pkgs []*packages.Package) *Packages {
	p := &Packages{
		named:       make(map[string]types.Type),
		annotations: make(map[string][]string),
	}

	visited := make(map[*types.Package]struct{})
	var index func(*types.Package)
	index = func(tpkg *types.Package) {
		if tpkg == nil {
			return
		}
		if _, done := visited[tpkg]; done {
			return
		}
		visited[tpkg] = struct{}{}

		scope := tpkg.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok {
				continue
			}
			key := types.TypeString(tn.Type(), nil)
			p.named[key] = tn.Type()
			if iface, ok := tn.Type().Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
				p.interfaces = append(p.interfaces, key)
			}
		}
		for _, imp := range tpkg.Imports() {
			index(imp)
		}
	}

	for _, pkg := range pkgs {
		index(pkg.Types)
		p.collectAnnotations(pkg)
	}
	slices.Sort(p.interfaces)

	return p
}

func (p *Packages) collectAnnotations(pkg *packages.Package) {
	if pkg.Types == nil {
		return
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				names := directives(doc)
				if len(names) == 0 {
					continue
				}
				key := pkg.Types.Path() + "." + ts.Name.Name
				p.annotations[key] = append(p.annotations[key], names...)
			}
		}
	}
}

func directives(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var names []string
	for _, c := range doc.List {
		if name, ok := strings.CutPrefix(c.Text, AnnotationDirective); ok {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// lookup resolves a type name, supporting pointer (`*T`) and slice (`[]T`)
// prefixes, predeclared types and every indexed named type.
func (p *Packages) lookup(name string) (types.Type, bool) {
	switch {
	case strings.HasPrefix(name, "*"):
		elem, ok := p.lookup(name[1:])
		if !ok {
			return nil, false
		}
		return types.NewPointer(elem), true
	case strings.HasPrefix(name, "[]"):
		elem, ok := p.lookup(name[2:])
		if !ok {
			return nil, false
		}
		return types.NewSlice(elem), true
	}

	if t, ok := p.named[name]; ok {
		return t, true
	}
	if obj, ok := types.Universe.Lookup(name).(*types.TypeName); ok {
		return obj.Type(), true
	}
	return nil, false
}

// IsAssignable follows Go assignability rules. Embedding a struct does not
// make the outer type assignable to the embedded one; such relationships are
// only reported by [Packages.Ancestors].
func (p *Packages) IsAssignable(actual, expected string) bool {
	if actual == expected {
		return true
	}
	a, ok := p.lookup(actual)
	if !ok {
		return false
	}
	e, ok := p.lookup(expected)
	if !ok {
		return false
	}
	return types.AssignableTo(a, e)
}

// Ancestors returns the indexed interfaces implemented by the type (or by a
// pointer to it), and the types it embeds, transitively.
func (p *Packages) Ancestors(typeName string) []string {
	t, ok := p.lookup(typeName)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	p.embedded(t, seen)

	_, isIface := t.Underlying().(*types.Interface)
	var ptr types.Type
	if _, isPtr := t.(*types.Pointer); !isPtr && !isIface {
		ptr = types.NewPointer(t)
	}
	for _, name := range p.interfaces {
		if name == typeName {
			continue
		}
		iface := p.named[name].Underlying().(*types.Interface)
		if types.Implements(t, iface) || (ptr != nil && types.Implements(ptr, iface)) {
			seen[name] = struct{}{}
		}
	}

	delete(seen, typeName)
	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

func (p *Packages) embedded(t types.Type, seen map[string]struct{}) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return
	}
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}
		ft := field.Type()
		if ptr, ok := ft.(*types.Pointer); ok {
			ft = ptr.Elem()
		}
		name := types.TypeString(ft, nil)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		p.embedded(ft, seen)
	}
}

func (p *Packages) Annotations(typeName string) []string {
	return slices.Clone(p.annotations[strings.TrimPrefix(typeName, "*")])
}

func (p *Packages) Known(typeName string) bool {
	_, ok := p.lookup(typeName)
	return ok
}
