// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package typeinfo

import "slices"

// Union combines several universes, typically a [Packages] universe for Go
// code and a [Static] one for types declared in configuration. A question is
// answered positively if any member answers positively; ancestors and
// annotations are merged.
type Union []Universe

var _ Universe = Union(nil)

func (u Union) IsAssignable(actual, expected string) bool {
	for _, m := range u {
		if m.IsAssignable(actual, expected) {
			return true
		}
	}
	return false
}

func (u Union) Ancestors(typeName string) []string {
	return u.merge(func(m Universe) []string { return m.Ancestors(typeName) })
}

func (u Union) Annotations(typeName string) []string {
	return u.merge(func(m Universe) []string { return m.Annotations(typeName) })
}

func (u Union) Known(typeName string) bool {
	return slices.ContainsFunc(u, func(m Universe) bool { return m.Known(typeName) })
}

func (u Union) merge(fn func(Universe) []string) []string {
	var res []string
	for _, m := range u {
		res = append(res, fn(m)...)
	}
	if len(res) == 0 {
		return nil
	}
	slices.Sort(res)
	return slices.Compact(res)
}
