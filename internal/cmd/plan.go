// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/intercept/codegen"
	"github.com/DataDog/intercept/internal/report"
)

var Plan = &cli.Command{
	Name:      "plan",
	Usage:     "Displays which constructors and methods of the types declared in Go packages would be intercepted",
	ArgsUsage: "PATTERN...",
	Flags: []cli.Flag{
		configFlag,
		dirFlag,
		jobsFlag,
		&cli.StringFlag{
			Name:  "filter",
			Usage: "only report types whose name matches `REGEX`",
		},
	},
	Action: func(clictx *cli.Context) error {
		defs, err := loadDefinitions(clictx.StringSlice(configFlag.Name))
		if err != nil {
			return cli.Exit(err, 1)
		}

		plans, err := planPackages(clictx.Context, clictx.String(dirFlag.Name), clictx.Int(jobsFlag.Name), defs, clictx.Args().Slice())
		if err != nil {
			return cli.Exit(err, 1)
		}

		rp := report.Report{Plans: plans}
		if filter := clictx.String("filter"); filter != "" {
			if rp, err = rp.WithFilter(filter); err != nil {
				return cli.Exit(err, 2)
			}
		}

		return rp.Render(clictx.App.Writer, report.StylesFor(clictx.App.Writer))
	},
}

var Generate = &cli.Command{
	Name:      "generate",
	Usage:     "Writes a Go source file holding the bindings of the types declared in Go packages",
	ArgsUsage: "PATTERN...",
	Flags: []cli.Flag{
		configFlag,
		dirFlag,
		jobsFlag,
		&cli.StringFlag{
			Name:  "package",
			Usage: "the `NAME` of the generated package",
			Value: "bindings",
		},
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "write the generated source to `FILE`",
			Required: true,
		},
	},
	Action: func(clictx *cli.Context) error {
		defs, err := loadDefinitions(clictx.StringSlice(configFlag.Name))
		if err != nil {
			return cli.Exit(err, 1)
		}

		plans, err := planPackages(clictx.Context, clictx.String(dirFlag.Name), clictx.Int(jobsFlag.Name), defs, clictx.Args().Slice())
		if err != nil {
			return cli.Exit(err, 1)
		}

		output := clictx.String("output")
		// Try to create the parent directory, but ignore errors, if any.
		_ = os.MkdirAll(filepath.Dir(output), 0o755)

		file, err := os.Create(output)
		if err != nil {
			return cli.Exit(fmt.Sprintf("create %q: %v", output, err), 1)
		}
		defer file.Close()

		if err := codegen.Generate(file, clictx.String("package"), plans); err != nil {
			return cli.Exit(err, 1)
		}
		return file.Close()
	},
}

var Diff = &cli.Command{
	Name:      "diff",
	Usage:     "Compares the plans produced by two sets of configuration files for the same Go packages",
	ArgsUsage: "PATTERN...",
	Flags: []cli.Flag{
		dirFlag,
		jobsFlag,
		&cli.StringSliceFlag{
			Name:  "before",
			Usage: "the baseline configuration `FILE`s (defaults to the built-in definitions)",
		},
		&cli.StringSliceFlag{
			Name:     "after",
			Usage:    "the updated configuration `FILE`s",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "exit-code",
			Usage: "exit with status 1 if the plans differ",
		},
	},
	Action: func(clictx *cli.Context) error {
		var reports [2]report.Report
		for i, flag := range []string{"before", "after"} {
			defs, err := loadDefinitions(clictx.StringSlice(flag))
			if err != nil {
				return cli.Exit(fmt.Sprintf("--%s: %v", flag, err), 1)
			}
			plans, err := planPackages(clictx.Context, clictx.String(dirFlag.Name), clictx.Int(jobsFlag.Name), defs, clictx.Args().Slice())
			if err != nil {
				return cli.Exit(err, 1)
			}
			reports[i] = report.Report{Plans: plans}
		}

		changed, err := report.Diff(clictx.App.Writer, reports[0], reports[1])
		if err != nil {
			return err
		}
		if changed && clictx.Bool("exit-code") {
			return cli.Exit("", 1)
		}
		return nil
	},
}
