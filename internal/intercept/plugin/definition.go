// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package plugin

import (
	"fmt"
	"slices"

	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/selector"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

// Definition aggregates a selector with the ordered constructor and method
// intercept points of a plugin. It is immutable once built by [New], and safe
// for concurrent use without synchronization.
type Definition struct {
	name         string
	selector     selector.Selector
	constructors []*InterceptPoint
	methods      []*InterceptPoint
	witnesses    []string
}

// Option customizes a [Definition].
type Option func(*Definition)

// WithWitnesses restricts the definition to environments where all the named
// types are known. This is typically used to tell library versions apart by
// the presence of types introduced (or removed) in a given version.
func WithWitnesses(typeNames ...string) Option {
	return func(d *Definition) {
		d.witnesses = append(d.witnesses, typeNames...)
	}
}

// New builds a plugin definition. The order of the provided points is
// preserved and used to break ties when several points match the same
// call-site. It returns a [*ConfigurationError] if the selector is invalid, if
// a point is nil, has no matcher or no handler, or if the same point appears
// twice in the same sequence.
func New(name string, sel selector.Selector, constructors []*InterceptPoint, methods []*InterceptPoint, opts ...Option) (*Definition, error) {
	if name == "" {
		return nil, &ConfigurationError{Plugin: name, Index: -1, Reason: ErrNoName}
	}
	if err := sel.Validate(); err != nil {
		return nil, &ConfigurationError{Plugin: name, Index: -1, Reason: err}
	}
	if err := validatePoints(name, SequenceConstructor, constructors); err != nil {
		return nil, err
	}
	if err := validatePoints(name, SequenceMethod, methods); err != nil {
		return nil, err
	}
	for i, p := range constructors {
		if p.overrideArgs {
			return nil, &ConfigurationError{Plugin: name, Sequence: SequenceConstructor, Index: i, Reason: ErrConstructorOverrideArgs}
		}
	}

	def := &Definition{
		name:         name,
		selector:     sel,
		constructors: slices.Clone(constructors),
		methods:      slices.Clone(methods),
	}
	for _, opt := range opts {
		opt(def)
	}
	for i, w := range def.witnesses {
		if w == "" {
			return nil, &ConfigurationError{Plugin: name, Index: i, Reason: ErrEmptyWitness}
		}
	}

	return def, nil
}

func validatePoints(plugin string, seq Sequence, points []*InterceptPoint) error {
	seen := make(map[*InterceptPoint]int, len(points))
	for i, p := range points {
		if p == nil {
			return &ConfigurationError{Plugin: plugin, Sequence: seq, Index: i, Reason: ErrNilPoint}
		}
		if first, dup := seen[p]; dup {
			return &ConfigurationError{
				Plugin:   plugin,
				Sequence: seq,
				Index:    i,
				Reason:   fmt.Errorf("%w (first seen at index %d)", ErrDuplicatePoint, first),
			}
		}
		seen[p] = i
		if p.matcher == nil {
			return &ConfigurationError{Plugin: plugin, Sequence: seq, Index: i, Reason: ErrNoMatcher}
		}
		if p.handler == "" {
			return &ConfigurationError{Plugin: plugin, Sequence: seq, Index: i, Reason: ErrNoHandler}
		}
	}
	return nil
}

// MustNew is the same as [New], except it panics in case of an error. It is
// intended for definitions written as Go literals.
func MustNew(name string, sel selector.Selector, constructors []*InterceptPoint, methods []*InterceptPoint, opts ...Option) *Definition {
	def, err := New(name, sel, constructors, methods, opts...)
	if err != nil {
		panic(err)
	}
	return def
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Selector() selector.Selector {
	return d.selector
}

// ConstructorPoints returns the constructor intercept points, in evaluation
// order. The returned slice is a copy; the points themselves are read-only.
func (d *Definition) ConstructorPoints() []*InterceptPoint {
	return slices.Clone(d.constructors)
}

// MethodPoints returns the method intercept points, in evaluation order. The
// returned slice is a copy; the points themselves are read-only.
func (d *Definition) MethodPoints() []*InterceptPoint {
	return slices.Clone(d.methods)
}

// Witnesses returns the witness type names of the definition.
func (d *Definition) Witnesses() []string {
	return slices.Clone(d.witnesses)
}

// Active reports whether every witness type is known to h. Definitions without
// witnesses are always active.
func (d *Definition) Active(h typeinfo.Hierarchy) bool {
	for _, w := range d.witnesses {
		if !typeinfo.IsKnown(h, w) {
			return false
		}
	}
	return true
}

func (d *Definition) Hash(h *fingerprint.Hasher) error {
	return h.Named(
		"plugin",
		fingerprint.String(d.name),
		d.selector,
		fingerprint.List[*InterceptPoint](d.constructors),
		fingerprint.List[*InterceptPoint](d.methods),
		fingerprint.Strings(d.witnesses),
	)
}
