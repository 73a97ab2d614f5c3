// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package signature describes call-sites (constructors and methods) of a
// target type, as discovered by a weaver.
package signature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DataDog/intercept/internal/fingerprint"
)

// MemberKind distinguishes constructors from methods.
type MemberKind int

const (
	Constructor MemberKind = iota + 1
	Method
)

func (k MemberKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Method:
		return "method"
	default:
		return fmt.Sprintf("MemberKind(%d)", int(k))
	}
}

// Signature identifies a single call-site. Values are built once per
// discovered call-site and never modified afterwards; use [NewConstructor] or
// [NewMethod] to build them. The parameter list is only reachable through
// [Signature.Param] and [Signature.Params], so copies of a signature never
// share mutable state.
type Signature struct {
	// Owner is the fully qualified name of the type declaring the call-site.
	Owner string
	// Kind tells constructors and methods apart.
	Kind MemberKind
	// Name is the method name. It is empty for constructors, and only
	// meaningful when HasName is true.
	Name    string
	HasName bool
	// params lists the declared type names of the parameters, in order.
	params []string
}

// NewConstructor returns the signature of a constructor of owner.
func NewConstructor(owner string, params ...string) Signature {
	return Signature{Owner: owner, Kind: Constructor, params: clone(params)}
}

// NewMethod returns the signature of the method name of owner.
func NewMethod(owner string, name string, params ...string) Signature {
	return Signature{Owner: owner, Kind: Method, Name: name, HasName: true, params: clone(params)}
}

func clone(params []string) []string {
	if len(params) == 0 {
		return nil
	}
	return append(make([]string, 0, len(params)), params...)
}

// MemberName returns the method name, and false for constructors.
func (s Signature) MemberName() (string, bool) {
	return s.Name, s.HasName
}

// Param returns the declared type of the parameter at pos, and false if there
// is no such parameter.
func (s Signature) Param(pos int) (string, bool) {
	if pos < 0 || pos >= len(s.params) {
		return "", false
	}
	return s.params[pos], true
}

// NumParams returns the number of declared parameters.
func (s Signature) NumParams() int {
	return len(s.params)
}

// Params returns a copy of the declared parameter types, in order.
func (s Signature) Params() []string {
	return clone(s.params)
}

var (
	ErrNoOwner          = errors.New("owner type name is empty")
	ErrUnknownKind      = errors.New("unknown member kind")
	ErrMissingName      = errors.New("method signature has no member name")
	ErrConstructorNamed = errors.New("constructor signature carries a member name")
	ErrEmptyParamType   = errors.New("parameter type name is empty")
)

// Validate reports whether the signature is structurally sound. A method
// must be named, a constructor must not be.
func (s Signature) Validate() error {
	if s.Owner == "" {
		return ErrNoOwner
	}
	switch s.Kind {
	case Constructor:
		if s.HasName {
			return ErrConstructorNamed
		}
	case Method:
		if !s.HasName || s.Name == "" {
			return ErrMissingName
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(s.Kind))
	}
	for i, p := range s.params {
		if p == "" {
			return fmt.Errorf("%w (position %d)", ErrEmptyParamType, i)
		}
	}
	return nil
}

// String renders the signature in a compact, human readable form, such as
// `pkg.Foo.Bar(string, int)` or `pkg.Foo.<init>(string)`.
func (s Signature) String() string {
	var buf strings.Builder
	buf.WriteString(s.Owner)
	buf.WriteByte('.')
	if s.Kind == Constructor {
		buf.WriteString("<init>")
	} else {
		buf.WriteString(s.Name)
	}
	buf.WriteByte('(')
	buf.WriteString(strings.Join(s.params, ", "))
	buf.WriteByte(')')
	return buf.String()
}

func (s Signature) Hash(h *fingerprint.Hasher) error {
	return h.Named(
		"signature",
		fingerprint.String(s.Owner),
		fingerprint.Int(s.Kind),
		fingerprint.Bool(s.HasName),
		fingerprint.String(s.Name),
		fingerprint.Strings(s.params),
	)
}
