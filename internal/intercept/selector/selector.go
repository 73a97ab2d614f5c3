// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package selector identifies the target types a plugin applies to.
package selector

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ryanuber/go-glob"

	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

// Kind is the selection criterion of a [Selector].
type Kind int

const (
	// ExactName selects the type whose name is exactly Value.
	ExactName Kind = iota + 1
	// NamePattern selects types whose name matches the glob pattern Value.
	NamePattern
	// SupertypeOf selects types having Value among their ancestors.
	SupertypeOf
	// AnnotatedWith selects types carrying the annotation Value.
	AnnotatedWith
)

var kindNames = map[Kind]string{
	ExactName:     "exact-name",
	NamePattern:   "name-pattern",
	SupertypeOf:   "supertype-of",
	AnnotatedWith: "annotated-with",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindNamed returns the kind with the provided YAML name.
func KindNamed(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Selector is a comparable value; two selectors with the same kind and value
// select the same types.
type Selector struct {
	Kind  Kind
	Value string
}

func ByName(name string) Selector {
	return Selector{Kind: ExactName, Value: name}
}

func ByNamePattern(pattern string) Selector {
	return Selector{Kind: NamePattern, Value: pattern}
}

func BySupertype(typeName string) Selector {
	return Selector{Kind: SupertypeOf, Value: typeName}
}

func ByAnnotation(annotation string) Selector {
	return Selector{Kind: AnnotatedWith, Value: annotation}
}

var (
	ErrUnknownKind = errors.New("unknown selector kind")
	ErrEmptyValue  = errors.New("selector value is empty")
)

func (s Selector) Validate() error {
	if _, ok := kindNames[s.Kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(s.Kind))
	}
	if s.Value == "" {
		return fmt.Errorf("%w (%s)", ErrEmptyValue, s.Kind)
	}
	return nil
}

// Matches reports whether typeName is selected. The hierarchy collaborator is
// only consulted by [SupertypeOf] and [AnnotatedWith] selectors, which never
// match when it is nil.
func (s Selector) Matches(typeName string, h typeinfo.Hierarchy) bool {
	switch s.Kind {
	case ExactName:
		return typeName == s.Value
	case NamePattern:
		return glob.Glob(s.Value, typeName)
	case SupertypeOf:
		if h == nil {
			return false
		}
		return slices.Contains(h.Ancestors(typeName), s.Value)
	case AnnotatedWith:
		if h == nil {
			return false
		}
		return slices.Contains(typeinfo.AnnotationsOf(h, typeName), s.Value)
	default:
		return false
	}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Value)
}

func (s Selector) Hash(h *fingerprint.Hasher) error {
	return h.Named("selector", fingerprint.String(s.Kind.String()), fingerprint.String(s.Value))
}
