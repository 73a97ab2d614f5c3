// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package typeinfo defines the type-introspection collaborators consulted by
// matchers and selectors, along with two implementations: [Static], built
// from declared relationships, and [Packages], backed by go/types.
package typeinfo

// Assignability answers whether a value of the actual type can be used where
// the expected type is required (identity, supertype or interface).
type Assignability interface {
	IsAssignable(actual, expected string) bool
}

// Hierarchy lists the ancestors (supertypes and implemented interfaces) of a
// type. The type itself is not part of its ancestors.
type Hierarchy interface {
	Ancestors(typeName string) []string
}

// Annotations is optionally implemented by a [Hierarchy] that knows which
// annotations (directives) are attached to a type.
type Annotations interface {
	Annotations(typeName string) []string
}

// Registry is optionally implemented by a [Hierarchy] that can tell whether a
// type is present at all.
type Registry interface {
	Known(typeName string) bool
}

// Universe bundles every capability a complete collaborator provides.
type Universe interface {
	Assignability
	Hierarchy
	Annotations
	Registry
}

// AnnotationsOf returns the annotations of typeName if h supports them.
func AnnotationsOf(h Hierarchy, typeName string) []string {
	if a, ok := h.(Annotations); ok {
		return a.Annotations(typeName)
	}
	return nil
}

// IsKnown reports whether h knows about typeName. A collaborator that does
// not implement [Registry] knows no types.
func IsKnown(h Hierarchy, typeName string) bool {
	if r, ok := h.(Registry); ok {
		return r.Known(typeName)
	}
	return false
}
