// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DataDog/intercept/internal/log"
)

// Load reads the named configuration files, and every file they extend. Each
// file is loaded at most once. The returned [*Config] is never nil: it holds
// everything that could be loaded, and the error joins every problem that was
// encountered along the way.
func Load(filenames ...string) (*Config, error) {
	l := loader{cfg: &Config{}}
	for _, filename := range filenames {
		l.loadFile(filename)
	}
	return l.cfg, errors.Join(l.errs...)
}

type loader struct {
	cfg   *Config
	errs  []error
	dedup map[string]struct{}
}

// markLoaded returns true if the filename was already loaded; and marks it as
// loaded and returns false otherwise.
func (l *loader) markLoaded(filename string) bool {
	if _, found := l.dedup[filename]; found {
		return true
	}
	if l.dedup == nil {
		l.dedup = make(map[string]struct{})
	}
	l.dedup[filename] = struct{}{}
	return false
}

func (l *loader) loadFile(filename string) {
	if abs, err := filepath.Abs(filename); err == nil {
		filename = abs
	}
	if l.markLoaded(filename) {
		// Already loaded, ignoring...
		return
	}

	file, err := l.parseFile(filename)
	if file == nil {
		l.errs = append(l.errs, err)
		return
	}
	if err != nil {
		l.errs = append(l.errs, err)
	}
	l.cfg.Files = append(l.cfg.Files, filename)

	dir := filepath.Dir(filename)
	for _, ext := range file.Extends {
		if !filepath.IsAbs(ext) {
			ext = filepath.Join(dir, ext)
		}
		l.loadFile(ext)
	}

	l.cfg.addTypes(file.Types)
	for i, def := range file.Plugins {
		if !l.cfg.addPlugin(def) {
			perr := &PluginError{File: filename, Line: file.lines[i], Plugin: def.Name(), Err: ErrDuplicatePlugin}
			log.Warnf("Skipping plugin: %v", perr)
			l.errs = append(l.errs, perr)
		}
	}
	log.Debugf("Loaded %d plugins from %q", len(file.Plugins), filename)
}

func (l *loader) parseFile(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, maskErrNotExist(fmt.Errorf("open %q: %w", filename, err))
	}
	defer f.Close()

	return Parse(filename, f)
}

// maskErrNotExist intentionally "breaks" the error chaining if the provided
// error is an [fs.ErrNotExist] so that the returned error is not
// [fs.ErrNotExist]. Otherwise, returns the original error unmodified.
func maskErrNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%v", err)
	}
	return err
}
