// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package plugin

import (
	"errors"
	"fmt"
)

// Sequence names one of the ordered intercept point sequences of a plugin.
type Sequence string

const (
	SequenceConstructor Sequence = "constructor"
	SequenceMethod      Sequence = "method"
)

var (
	ErrNoName                  = errors.New("plugin name is empty")
	ErrNilPoint                = errors.New("intercept point is nil")
	ErrNoMatcher               = errors.New("intercept point has no matcher")
	ErrNoHandler               = errors.New("intercept point has an empty handler identifier")
	ErrDuplicatePoint          = errors.New("intercept point appears more than once")
	ErrConstructorOverrideArgs = errors.New("constructor intercept points cannot override arguments")
	ErrEmptyWitness            = errors.New("witness type name is empty")
)

// ConfigurationError reports a malformed plugin definition. It is fatal to
// the loading of that plugin only.
type ConfigurationError struct {
	// Plugin is the name of the offending plugin.
	Plugin string
	// Sequence is the intercept point sequence at fault, if any.
	Sequence Sequence
	// Index is the position of the offending entry, or -1.
	Index int
	// Reason is the underlying cause.
	Reason error
}

func (e *ConfigurationError) Error() string {
	if e.Sequence != "" {
		return fmt.Sprintf("plugin %q: %s point #%d: %v", e.Plugin, e.Sequence, e.Index, e.Reason)
	}
	return fmt.Sprintf("plugin %q: %v", e.Plugin, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Reason
}
