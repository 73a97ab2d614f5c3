// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package plugin holds plugin definitions: a class selector along with the
// ordered intercept points for the selected types' constructors and methods.
package plugin

import (
	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/match"
)

// InterceptPoint binds a matcher to the identifier of the handler that
// call-sites selected by the matcher are routed to. Points are always handled
// by pointer: two points are the same point only if they are the same
// pointer, regardless of their contents. A point cannot be modified once
// built by [Constructor] or [Method].
type InterceptPoint struct {
	matcher      match.Matcher
	handler      string
	overrideArgs bool
}

// PointOption customizes a method intercept point.
type PointOption func(*InterceptPoint)

// WithOverrideArgs lets the handler replace the method's arguments.
func WithOverrideArgs() PointOption {
	return func(p *InterceptPoint) {
		p.overrideArgs = true
	}
}

// Constructor returns an intercept point for constructors.
func Constructor(m match.Matcher, handler string) *InterceptPoint {
	return &InterceptPoint{matcher: m, handler: handler}
}

// Method returns an intercept point for methods.
func Method(m match.Matcher, handler string, opts ...PointOption) *InterceptPoint {
	p := &InterceptPoint{matcher: m, handler: handler}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Matcher returns the matcher selecting the call-sites this point applies to.
func (p *InterceptPoint) Matcher() match.Matcher {
	return p.matcher
}

// Handler returns the opaque handler identifier, resolved by the handler
// registry of the weaver. It is never dereferenced here.
func (p *InterceptPoint) Handler() string {
	return p.handler
}

// OverrideArgs reports whether the handler may replace the argument list
// before the original call-site body runs. Only meaningful for methods.
func (p *InterceptPoint) OverrideArgs() bool {
	return p.overrideArgs
}

func (p *InterceptPoint) Hash(h *fingerprint.Hasher) error {
	return h.Named(
		"intercept-point",
		p.matcher,
		fingerprint.String(p.handler),
		fingerprint.Bool(p.overrideArgs),
	)
}
