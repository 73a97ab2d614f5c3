// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package config loads plugin definitions and the static type hierarchy from
// YAML configuration files.
package config

import (
	"maps"
	"slices"

	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

// DefaultFilename is the conventional name of a configuration file.
const DefaultFilename = "intercept.yml"

// Config is the merged result of loading one or more configuration files.
type Config struct {
	// Files lists every file that was loaded, in load order.
	Files []string

	plugins []*plugin.Definition
	byName  map[string]*plugin.Definition
	types   map[string]typeinfo.Declaration
}

// Plugins returns the loaded plugin definitions in load order.
func (c *Config) Plugins() []*plugin.Definition {
	return slices.Clone(c.plugins)
}

// Plugin returns the definition with the given name, if one was loaded.
func (c *Config) Plugin(name string) (*plugin.Definition, bool) {
	def, found := c.byName[name]
	return def, found
}

// Types returns the declared type hierarchy, keyed by type name.
func (c *Config) Types() map[string]typeinfo.Declaration {
	return maps.Clone(c.types)
}

// Universe builds a [typeinfo.Static] from the declared type hierarchy.
func (c *Config) Universe() *typeinfo.Static {
	return typeinfo.NewStatic(c.types)
}

func (c *Config) addPlugin(def *plugin.Definition) bool {
	if _, dup := c.byName[def.Name()]; dup {
		return false
	}
	if c.byName == nil {
		c.byName = make(map[string]*plugin.Definition)
	}
	c.byName[def.Name()] = def
	c.plugins = append(c.plugins, def)
	return true
}

// addTypes merges declarations; a type declared in several files gets the
// union of its supertypes and annotations.
func (c *Config) addTypes(decls map[string]typeinfo.Declaration) {
	if c.types == nil {
		c.types = make(map[string]typeinfo.Declaration, len(decls))
	}
	for name, decl := range decls {
		prev := c.types[name]
		c.types[name] = typeinfo.Declaration{
			Supertypes:  union(prev.Supertypes, decl.Supertypes),
			Annotations: union(prev.Annotations, decl.Annotations),
		}
	}
}

func union(a, b []string) []string {
	res := append(slices.Clone(a), b...)
	slices.Sort(res)
	return slices.Compact(res)
}
