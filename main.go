// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/cmd"
	"github.com/DataDog/intercept/internal/log"
	"github.com/DataDog/intercept/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logLevel := log.LevelWarn
	app := &cli.App{
		Name:        "intercept",
		Usage:       "Resolves which constructors and methods are intercepted, and by which handler",
		HelpName:    "intercept",
		Version:     version.Tag(),
		HideVersion: true,
		Commands:    cmd.Commands,
		Flags: []cli.Flag{
			&cli.GenericFlag{
				Name:  "log-level",
				Usage: "log verbosity (none, error, warn, info, debug, trace); overrides $" + envVarLogLevel,
				Value: &logLevel,
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("log-level") {
				log.SetLevel(logLevel)
			}
			return nil
		},
		After: func(*cli.Context) error {
			return log.Close()
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
