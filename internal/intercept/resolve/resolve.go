// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package resolve selects, for a given call-site, the intercept point it is
// bound to. Resolution is first-match-wins: points are evaluated in order and
// the first one whose matcher accepts the call-site is returned. Points that
// follow are never evaluated, even if they would also match.
package resolve

import (
	"fmt"

	"github.com/DataDog/intercept/internal/intercept/match"
	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/signature"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
)

// Binding is what a weaver receives for a call-site it should wrap.
//
// The weaver invokes the handler identified by Handler before the original
// call-site body runs, supplying the receiver (for instance methods), the
// argument list and the signature. When OverrideArgs is true, the handler may
// return a replacement argument list that is substituted before the original
// body runs. The handler is invoked again once the original body completes,
// normally or by failure, with the result or failure captured.
type Binding struct {
	// Handler is the opaque identifier of the handler.
	Handler string
	// OverrideArgs allows the handler to replace the arguments.
	OverrideArgs bool
	// Point is the intercept point that matched.
	Point *plugin.InterceptPoint
	// Index is the position of Point within its sequence.
	Index int
}

// NoBinding is returned for call-sites that no intercept point selects. Such
// call-sites are left untouched.
var NoBinding = Binding{Index: -1}

// Found reports whether the binding designates a handler.
func (b Binding) Found() bool {
	return b.Point != nil
}

func (b Binding) String() string {
	if !b.Found() {
		return "<none>"
	}
	if b.OverrideArgs {
		return fmt.Sprintf("%s (#%d, override-args)", b.Handler, b.Index)
	}
	return fmt.Sprintf("%s (#%d)", b.Handler, b.Index)
}

// Resolve returns the binding of the first point in points whose matcher
// selects sig, or [NoBinding] if none does. Nil points and points without a
// matcher never match. It fails with a [*ResolutionError] only if sig is
// structurally invalid.
func Resolve(sig signature.Signature, points []*plugin.InterceptPoint, types typeinfo.Assignability) (Binding, error) {
	if err := sig.Validate(); err != nil {
		return NoBinding, &ResolutionError{Signature: sig, Reason: err}
	}

	ctx := match.NewContext(sig, types)
	for idx, point := range points {
		if point == nil || point.Matcher() == nil {
			continue
		}
		if point.Matcher().Matches(ctx) {
			log.Tracef("%s bound to %q by point #%d\n", sig, point.Handler(), idx)
			return Binding{
				Handler:      point.Handler(),
				OverrideArgs: point.OverrideArgs() && sig.Kind == signature.Method,
				Point:        point,
				Index:        idx,
			}, nil
		}
	}

	return NoBinding, nil
}

// Resolver resolves call-sites against plugin definitions, using a shared
// type-introspection collaborator. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	Types typeinfo.Assignability
}

// New returns a resolver consulting types for assignability checks.
func New(types typeinfo.Assignability) *Resolver {
	return &Resolver{Types: types}
}

// ResolveConstructor resolves a constructor call-site against the constructor
// points of def.
func (r *Resolver) ResolveConstructor(def *plugin.Definition, sig signature.Signature) (Binding, error) {
	if sig.Kind != signature.Constructor {
		return NoBinding, &ResolutionError{Signature: sig, Plugin: def.Name(), Reason: fmt.Errorf("%w: expected a constructor, got a %s", ErrKindMismatch, sig.Kind)}
	}
	return r.resolve(def, sig, def.ConstructorPoints())
}

// ResolveMethod resolves a method call-site against the method points of def.
func (r *Resolver) ResolveMethod(def *plugin.Definition, sig signature.Signature) (Binding, error) {
	if sig.Kind != signature.Method {
		return NoBinding, &ResolutionError{Signature: sig, Plugin: def.Name(), Reason: fmt.Errorf("%w: expected a method, got a %s", ErrKindMismatch, sig.Kind)}
	}
	return r.resolve(def, sig, def.MethodPoints())
}

// ResolveAny dispatches to [Resolver.ResolveConstructor] or
// [Resolver.ResolveMethod] depending on the kind of sig.
func (r *Resolver) ResolveAny(def *plugin.Definition, sig signature.Signature) (Binding, error) {
	switch sig.Kind {
	case signature.Constructor:
		return r.ResolveConstructor(def, sig)
	case signature.Method:
		return r.ResolveMethod(def, sig)
	default:
		return r.resolve(def, sig, nil)
	}
}

func (r *Resolver) resolve(def *plugin.Definition, sig signature.Signature, points []*plugin.InterceptPoint) (Binding, error) {
	binding, err := Resolve(sig, points, r.Types)
	if resErr, ok := err.(*ResolutionError); ok {
		resErr.Plugin = def.Name()
	}
	return binding, err
}
