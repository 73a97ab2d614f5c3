// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/intercept/match"
	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/selector"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
	"github.com/DataDog/intercept/internal/version"
)

// File is the decoded content of a single configuration file.
type File struct {
	Name     string
	Requires string
	Extends  []string
	Types    map[string]typeinfo.Declaration
	Plugins  []*plugin.Definition

	// lines holds the line each entry of Plugins starts at.
	lines []int
}

type fileYAML struct {
	Meta struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"meta"`
	Requires string                          `yaml:"requires"`
	Extends  []string                        `yaml:"extends"`
	Types    map[string]typeinfo.Declaration `yaml:"types"`
	Plugins  []yaml.Node                     `yaml:"plugins"`
}

type pluginYAML struct {
	Name         string      `yaml:"name"`
	Select       yaml.Node   `yaml:"select"`
	Witnesses    []string    `yaml:"witnesses"`
	Constructors []pointYAML `yaml:"constructors"`
	Methods      []pointYAML `yaml:"methods"`
}

type pointYAML struct {
	Match        yaml.Node `yaml:"match"`
	Handler      string    `yaml:"handler"`
	OverrideArgs bool      `yaml:"override-args"`
}

// Parse decodes a configuration file. File-level problems (syntax, schema
// violations, unsupported version requirement) return a nil [*File]. Plugin
// entries that fail to load are reported as [*PluginError] values joined in
// the returned error, and the returned [*File] holds the remaining plugins.
func Parse(filename string, r io.Reader) (*File, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{Name: filename}, nil
		}
		return nil, fmt.Errorf("yaml.Decode %q -> yaml.Node: %w", filename, err)
	}

	// The [yaml.Node] tree is cheaply decoded into the generic representation
	// the schema validator supports, then into the actual data structure.
	var simple map[string]any
	if err := node.Decode(&simple); err != nil {
		return nil, fmt.Errorf("yaml.Decode %q -> map[string]any: %w", filename, err)
	}
	if err := ValidateObject(simple); err != nil {
		return nil, fmt.Errorf("validate %q: %w", filename, err)
	}

	var yml fileYAML
	if err := node.Decode(&yml); err != nil {
		return nil, fmt.Errorf("yaml.Decode %q: %w", filename, err)
	}

	if yml.Requires != "" {
		ok, err := version.Satisfies(yml.Requires)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", filename, err)
		}
		if !ok {
			return nil, fmt.Errorf("%q requires %s, running %s: %w", filename, yml.Requires, version.Tag(), ErrUnsupported)
		}
	}

	file := &File{
		Name:     filename,
		Requires: yml.Requires,
		Extends:  yml.Extends,
		Types:    yml.Types,
	}

	var errs []error
	for i := range yml.Plugins {
		pluginNode := &yml.Plugins[i]
		def, err := decodePlugin(pluginNode)
		if err != nil {
			perr := &PluginError{File: filename, Line: pluginNode.Line, Err: err}
			var cfgErr *plugin.ConfigurationError
			if errors.As(err, &cfgErr) {
				perr.Plugin = cfgErr.Plugin
			} else {
				perr.Plugin = pluginName(pluginNode)
			}
			log.Warnf("Skipping plugin: %v", perr)
			errs = append(errs, perr)
			continue
		}
		file.Plugins = append(file.Plugins, def)
		file.lines = append(file.lines, pluginNode.Line)
	}

	return file, errors.Join(errs...)
}

func pluginName(node *yaml.Node) string {
	var named struct {
		Name string `yaml:"name"`
	}
	_ = node.Decode(&named)
	return named.Name
}

func decodePlugin(node *yaml.Node) (*plugin.Definition, error) {
	var simple any
	if err := node.Decode(&simple); err != nil {
		return nil, err
	}
	if err := ValidatePlugin(simple); err != nil {
		return nil, err
	}

	var raw pluginYAML
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	sel, err := selector.FromYAML(&raw.Select)
	if err != nil {
		return nil, &plugin.ConfigurationError{Plugin: raw.Name, Index: -1, Reason: err}
	}

	constructors := make([]*plugin.InterceptPoint, len(raw.Constructors))
	for i, p := range raw.Constructors {
		m, err := match.FromYAML(&p.Match)
		if err != nil {
			return nil, &plugin.ConfigurationError{Plugin: raw.Name, Sequence: plugin.SequenceConstructor, Index: i, Reason: err}
		}
		constructors[i] = plugin.Constructor(m, p.Handler)
	}

	methods := make([]*plugin.InterceptPoint, len(raw.Methods))
	for i, p := range raw.Methods {
		m, err := match.FromYAML(&p.Match)
		if err != nil {
			return nil, &plugin.ConfigurationError{Plugin: raw.Name, Sequence: plugin.SequenceMethod, Index: i, Reason: err}
		}
		var opts []plugin.PointOption
		if p.OverrideArgs {
			opts = append(opts, plugin.WithOverrideArgs())
		}
		methods[i] = plugin.Method(m, p.Handler, opts...)
	}

	return plugin.New(raw.Name, sel, constructors, methods, plugin.WithWitnesses(raw.Witnesses...))
}
