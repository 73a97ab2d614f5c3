// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package codegen renders interception plans as Go source, so that a weaver
// can look bindings up at run time without loading any configuration.
package codegen

import (
	"fmt"
	"io"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/DataDog/intercept/internal/intercept/enhance"
)

// Generate writes a Go source file declaring package pkgName, which holds the
// bindings of every site in plans.
func Generate(w io.Writer, pkgName string, plans []enhance.TypePlan) error {
	file := jen.NewFile(pkgName)
	file.HeaderComment("// Unless explicitly stated otherwise all files in this repository are licensed")
	file.HeaderComment("// under the Apache License Version 2.0.")
	file.HeaderComment("// This product includes software developed at Datadog (https://www.datadoghq.com/).")
	file.HeaderComment("// Copyright 2023-present Datadog, Inc.\n")
	file.HeaderComment("// Code generated by 'intercept generate' DO NOT EDIT.\n")

	file.Comment("Binding routes a call-site to a handler. When OverrideArgs is set, the")
	file.Comment("handler may replace the arguments before the original body runs.")
	file.Type().Id("Binding").Struct(
		jen.Id("Plugin").String(),
		jen.Id("Handler").String(),
		jen.Id("OverrideArgs").Bool(),
	)

	sites, order := index(plans)

	file.Comment("Bindings maps call-site signatures to their bindings, in plugin order.")
	file.Var().Id("Bindings").Op("=").Map(jen.String()).Index().Id("Binding").ValuesFunc(func(g *jen.Group) {
		for _, site := range order {
			g.Line().Lit(site).Op(":").ValuesFunc(func(g *jen.Group) {
				for _, s := range sites[site] {
					g.Values(jen.Dict{
						jen.Id("Plugin"):       jen.Lit(s.Plugin),
						jen.Id("Handler"):      jen.Lit(s.Binding.Handler),
						jen.Id("OverrideArgs"): jen.Lit(s.Binding.OverrideArgs),
					})
				}
			})
		}
		if len(order) > 0 {
			g.Line()
		}
	})

	file.Comment("Handlers lists every handler identifier referenced by Bindings.")
	file.Var().Id("Handlers").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		hs := handlers(plans)
		for _, h := range hs {
			g.Line().Lit(h)
		}
		if len(hs) > 0 {
			g.Line()
		}
	})

	file.Comment("Lookup returns the bindings of the call-site with the given signature.")
	file.Func().Id("Lookup").Params(jen.Id("site").String()).Index().Id("Binding").Block(
		jen.Return(jen.Id("Bindings").Index(jen.Id("site"))),
	)

	if err := file.Render(w); err != nil {
		return fmt.Errorf("rendering %s: %w", pkgName, err)
	}
	return nil
}

func index(plans []enhance.TypePlan) (map[string][]enhance.Site, []string) {
	sites := make(map[string][]enhance.Site)
	var order []string
	for _, plan := range plans {
		for _, site := range plan.Sites {
			key := site.Signature.String()
			if _, seen := sites[key]; !seen {
				order = append(order, key)
			}
			sites[key] = append(sites[key], site)
		}
	}
	return sites, order
}

func handlers(plans []enhance.TypePlan) []string {
	var res []string
	for _, plan := range plans {
		for _, site := range plan.Sites {
			res = append(res, site.Binding.Handler)
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}
