// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package match provides the predicates used to select call-sites by their
// signature. Matchers are pure and total: a matcher that does not apply to a
// signature (for example, a name matcher on a constructor) evaluates to false
// rather than failing.
package match

import (
	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/signature"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

// Matcher is the interface that abstracts selection of call-sites.
type Matcher interface {
	// Matches determines whether the call-site described by ctx is selected.
	Matches(ctx *Context) bool

	fingerprint.Hashable
}

// Context carries the call-site being evaluated, and the collaborator used to
// answer assignability questions.
type Context struct {
	Signature signature.Signature

	types typeinfo.Assignability
}

// NewContext returns a context for sig. A nil types collaborator restricts
// type matching to exact name equality.
func NewContext(sig signature.Signature, types typeinfo.Assignability) *Context {
	return &Context{Signature: sig, types: types}
}

// IsAssignable reports whether actual is the same type as expected, or is
// assignable to it according to the type-introspection collaborator.
func (c *Context) IsAssignable(actual, expected string) bool {
	if actual == expected {
		return true
	}
	return c.types != nil && c.types.IsAssignable(actual, expected)
}
