// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package typeinfo

import (
	"slices"
)

// Declaration describes a single type for [NewStatic].
type Declaration struct {
	// Supertypes are the direct supertypes and implemented interfaces.
	Supertypes []string `yaml:"supertypes,omitempty"`
	// Annotations attached to the type.
	Annotations []string `yaml:"annotations,omitempty"`
}

// Static is an immutable [Universe] built from declared type relationships.
// The ancestor sets are closed transitively at construction time, so lookups
// never walk the graph and are safe for concurrent use.
type Static struct {
	ancestors   map[string][]string
	annotations map[string][]string
	known       map[string]struct{}
}

var _ Universe = (*Static)(nil)

// NewStatic builds a [Static] universe from the provided declarations. Cycles
// in the declared graph are tolerated; a type never counts as its own
// ancestor.
func NewStatic(decls map[string]Declaration) *Static {
	s := &Static{
		ancestors:   make(map[string][]string, len(decls)),
		annotations: make(map[string][]string, len(decls)),
		known:       make(map[string]struct{}, len(decls)),
	}

	for name, decl := range decls {
		s.known[name] = struct{}{}
		for _, sup := range decl.Supertypes {
			s.known[sup] = struct{}{}
		}
		if len(decl.Annotations) > 0 {
			s.annotations[name] = slices.Clone(decl.Annotations)
		}
	}

	for name := range decls {
		s.ancestors[name] = closure(name, decls)
	}

	return s
}

func closure(name string, decls map[string]Declaration) []string {
	seen := map[string]struct{}{name: {}}
	queue := slices.Clone(decls[name].Supertypes)
	var result []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, dup := seen[next]; dup {
			continue
		}
		seen[next] = struct{}{}
		result = append(result, next)
		queue = append(queue, decls[next].Supertypes...)
	}
	slices.Sort(result)
	return result
}

func (s *Static) Ancestors(typeName string) []string {
	return slices.Clone(s.ancestors[typeName])
}

func (s *Static) IsAssignable(actual, expected string) bool {
	if actual == expected {
		return true
	}
	_, found := slices.BinarySearch(s.ancestors[actual], expected)
	return found
}

func (s *Static) Annotations(typeName string) []string {
	return slices.Clone(s.annotations[typeName])
}

func (s *Static) Known(typeName string) bool {
	_, ok := s.known[typeName]
	return ok
}
