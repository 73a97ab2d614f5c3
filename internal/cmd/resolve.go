// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/intercept/resolve"
	"github.com/DataDog/intercept/internal/intercept/signature"
)

var Resolve = &cli.Command{
	Name:  "resolve",
	Usage: "Displays the handler each plugin binds a single constructor or method to",
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{
			Name:     "type",
			Aliases:  []string{"t"},
			Usage:    "the fully qualified `NAME` of the type declaring the member",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "ctor",
			Usage: "resolve a constructor of the type",
		},
		&cli.StringFlag{
			Name:  "method",
			Usage: "resolve the method named `NAME`",
		},
		&cli.StringSliceFlag{
			Name:    "param",
			Aliases: []string{"p"},
			Usage:   "the parameter types, in order; repeat for each parameter",
		},
	},
	Action: func(clictx *cli.Context) error {
		typeName := clictx.String("type")
		params := clictx.StringSlice("param")

		var sig signature.Signature
		switch method := clictx.String("method"); {
		case clictx.Bool("ctor") && method != "":
			return cli.Exit("--ctor and --method are mutually exclusive", 2)
		case clictx.Bool("ctor"):
			sig = signature.NewConstructor(typeName, params...)
		case method != "":
			sig = signature.NewMethod(typeName, method, params...)
		default:
			return cli.Exit("one of --ctor or --method is required", 2)
		}

		defs, err := loadDefinitions(clictx.StringSlice(configFlag.Name))
		if err != nil {
			return cli.Exit(err, 1)
		}

		w := clictx.App.Writer
		resolver := resolve.New(defs.types)
		selected := 0
		for _, def := range defs.plugins {
			if !def.Selector().Matches(typeName, defs.types) || !def.Active(defs.types) {
				continue
			}
			selected++

			binding, err := resolver.ResolveAny(def, sig)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !binding.Found() {
				_, _ = fmt.Fprintf(w, "%s: no binding\n", def.Name())
				continue
			}
			_, _ = fmt.Fprintf(w, "%s: %s\n", def.Name(), binding)
		}

		if selected == 0 {
			_, _ = fmt.Fprintf(w, "no plugin selects %s\n", typeName)
		}
		return nil
	},
}
