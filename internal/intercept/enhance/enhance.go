// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package enhance computes, for a set of discovered types, which plugin
// definitions apply and which handler each constructor and method is bound
// to. It is the reference consumer of the resolver, as a weaver would use it.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/resolve"
	"github.com/DataDog/intercept/internal/intercept/selector"
	"github.com/DataDog/intercept/internal/intercept/signature"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
)

// Types is the type-introspection collaborator a [Planner] needs.
type Types interface {
	typeinfo.Assignability
	typeinfo.Hierarchy
}

// Target is a discovered type along with its constructors and methods.
type Target struct {
	Type    string
	Members []signature.Signature
}

// Site is a member of a [Target] bound to a handler by a plugin.
type Site struct {
	Signature signature.Signature
	Plugin    string
	Binding   resolve.Binding
}

// TypePlan is the outcome of planning a single [Target].
type TypePlan struct {
	Type string
	// Plugins lists the active definitions whose selector matched the type,
	// in definition order.
	Plugins []string
	// Sites lists the bound members, in member order then definition order.
	Sites []Site
}

// Planner evaluates plugin definitions against targets. It is safe for
// concurrent use.
type Planner struct {
	defs     []*plugin.Definition
	types    Types
	cache    *selector.Cache
	resolver *resolve.Resolver
	limit    int
}

// Option configures a [Planner].
type Option func(*Planner)

// WithConcurrency bounds the number of targets planned concurrently by
// [Planner.Plan]. Values below 1 select [runtime.GOMAXPROCS].
func WithConcurrency(n int) Option {
	return func(p *Planner) {
		p.limit = n
	}
}

// NewPlanner returns a [Planner] for the provided definitions. A nil types
// collaborator restricts selectors to name-based matching and argument type
// checks to equality.
func NewPlanner(defs []*plugin.Definition, types Types, opts ...Option) *Planner {
	p := &Planner{
		defs:     defs,
		types:    types,
		cache:    selector.NewCache(types),
		resolver: resolve.New(types),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.limit < 1 {
		p.limit = runtime.GOMAXPROCS(0)
	}
	return p
}

// PlanType plans a single target.
func (p *Planner) PlanType(target Target) (TypePlan, error) {
	res := TypePlan{Type: target.Type}

	var applicable []*plugin.Definition
	for _, def := range p.defs {
		if !p.cache.Matches(def.Selector(), target.Type) {
			continue
		}
		if !def.Active(p.types) {
			log.Debugf("Plugin %q matches %s but is inactive (missing witnesses)", def.Name(), target.Type)
			continue
		}
		applicable = append(applicable, def)
		res.Plugins = append(res.Plugins, def.Name())
	}
	if len(applicable) == 0 {
		return res, nil
	}

	var errs []error
	for _, sig := range target.Members {
		for _, def := range applicable {
			binding, err := p.resolver.ResolveAny(def, sig)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !binding.Found() {
				continue
			}
			res.Sites = append(res.Sites, Site{Signature: sig, Plugin: def.Name(), Binding: binding})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return TypePlan{}, fmt.Errorf("planning %s: %w", target.Type, err)
	}
	return res, nil
}

// Plan plans every target concurrently. The result is in the same order as
// targets, and is identical to calling [Planner.PlanType] on each target in
// turn. Planning stops at the first error or when ctx is cancelled.
func (p *Planner) Plan(ctx context.Context, targets []Target) ([]TypePlan, error) {
	res := make([]TypePlan, len(targets))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(p.limit)
	for i, target := range targets {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := p.PlanType(target)
			if err != nil {
				return err
			}
			res[i] = plan
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Bound returns only the plans that bind at least one site.
func Bound(plans []TypePlan) []TypePlan {
	var res []TypePlan
	for _, plan := range plans {
		if len(plan.Sites) > 0 {
			res = append(res, plan)
		}
	}
	return res
}
