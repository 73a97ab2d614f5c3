// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/intercept/config"
	"github.com/DataDog/intercept/internal/log"
)

var Validate = &cli.Command{
	Name:      "validate",
	Usage:     "Loads configuration files and reports any problem found in them",
	ArgsUsage: "FILE...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "keep running, and validate again whenever a loaded file changes",
		},
	},
	Action: func(clictx *cli.Context) error {
		files := clictx.Args().Slice()
		if len(files) == 0 {
			files = []string{config.DefaultFilename}
		}

		loaded, errCount := validate(clictx.App.Writer, files)
		if !clictx.Bool("watch") {
			if errCount > 0 {
				return cli.Exit(fmt.Sprintf("%d configuration errors", errCount), 1)
			}
			return nil
		}

		watched := slices.Clone(files)
		for _, f := range loaded {
			if !slices.Contains(watched, f) {
				watched = append(watched, f)
			}
		}
		return watch(clictx.Context, watched, func() {
			_, _ = fmt.Fprintln(clictx.App.Writer, "---")
			validate(clictx.App.Writer, files)
		})
	},
}

// validate loads files and reports the outcome to w. It returns the files
// that were loaded and the number of errors found.
func validate(w io.Writer, files []string) ([]string, int) {
	cfg, err := config.Load(files...)
	errs := flattenErrors(err)
	for _, e := range errs {
		_, _ = fmt.Fprintf(w, "error: %v\n", e)
	}
	_, _ = fmt.Fprintf(w, "%d plugins loaded from %d files, %d errors\n", len(cfg.Plugins()), len(cfg.Files), len(errs))
	return cfg.Files, len(errs)
}

// watch calls onChange every time one of files is written to, created or
// renamed, until ctx is done. The parent directories are watched, so that
// editors replacing files are noticed.
func watch(ctx context.Context, files []string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
	}
	dirs := make([]string, 0, len(watched))
	for f := range watched {
		dirs = append(dirs, filepath.Dir(f))
	}
	slices.Sort(dirs)
	for _, dir := range slices.Compact(dirs) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %q: %w", dir, err)
		}
		log.Debugf("Watching %q for changes", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, found := watched[filepath.Clean(event.Name)]; !found {
				continue
			}
			log.Debugf("Change detected: %s", event)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("File watcher error: %v", err)
		}
	}
}
