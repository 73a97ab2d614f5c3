// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/intercept/builtin"
	"github.com/DataDog/intercept/internal/intercept/config"
	"github.com/DataDog/intercept/internal/intercept/discover"
	"github.com/DataDog/intercept/internal/intercept/enhance"
	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
)

var (
	configFlag = &cli.StringSliceFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "load plugin definitions from `FILE` instead of the built-in ones",
	}
	dirFlag = &cli.StringFlag{
		Name:  "dir",
		Usage: "resolve package patterns relative to `DIR`",
		Value: ".",
	}
	jobsFlag = &cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "plan at most `N` types concurrently (0 uses every available CPU)",
	}
)

// Commands lists every command of the intercept tool.
var Commands = []*cli.Command{Validate, Resolve, Plan, Generate, Diff, Version}

// definitions is a set of plugins along with the types they were declared
// with.
type definitions struct {
	plugins []*plugin.Definition
	types   *typeinfo.Static
}

// loadDefinitions loads the named configuration files, or the built-in
// definitions if there are none. Any configuration error is fatal.
func loadDefinitions(files []string) (definitions, error) {
	if len(files) == 0 {
		return definitions{plugins: builtin.Definitions(), types: typeinfo.NewStatic(builtin.Types())}, nil
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return definitions{}, err
	}
	log.Debugf("Loaded %d plugins from %d files", len(cfg.Plugins()), len(cfg.Files))
	return definitions{plugins: cfg.Plugins(), types: cfg.Universe()}, nil
}

// planPackages discovers the types declared in the packages matching
// patterns, and plans them against defs.
func planPackages(ctx context.Context, dir string, jobs int, defs definitions, patterns []string) ([]enhance.TypePlan, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no package pattern provided")
	}

	pkgs, err := discover.Load(ctx, dir, patterns...)
	if err != nil {
		return nil, err
	}
	targets, err := discover.Targets(pkgs)
	if err != nil {
		return nil, err
	}

	universe := typeinfo.Union{typeinfo.FromPackages(pkgs), defs.types}
	planner := enhance.NewPlanner(defs.plugins, universe, enhance.WithConcurrency(jobs))
	return planner.Plan(ctx, targets)
}

// flattenErrors unwraps joined errors into their leaves.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var res []error
		for _, e := range joined.Unwrap() {
			res = append(res, flattenErrors(e)...)
		}
		return res
	}
	return []error{err}
}
