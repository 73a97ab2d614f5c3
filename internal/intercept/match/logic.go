// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package match

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/fingerprint"
)

type allOf []Matcher

// AllOf matches when every requirement matches. Evaluation stops at the first
// requirement that does not match; an empty AllOf always matches.
func AllOf(requirements ...Matcher) Matcher {
	return allOf(slices.Clone(requirements))
}

func (a allOf) Matches(ctx *Context) bool {
	for _, m := range a {
		if !m.Matches(ctx) {
			return false
		}
	}
	return true
}

func (a allOf) Hash(h *fingerprint.Hasher) error {
	return h.Named("all-of", fingerprint.List[Matcher](a))
}

type oneOf []Matcher

// OneOf matches when at least one candidate matches. Evaluation stops at the
// first candidate that matches; an empty OneOf never matches.
func OneOf(candidates ...Matcher) Matcher {
	return oneOf(slices.Clone(candidates))
}

func (o oneOf) Matches(ctx *Context) bool {
	for _, m := range o {
		if m.Matches(ctx) {
			return true
		}
	}
	return false
}

func (o oneOf) Hash(h *fingerprint.Hasher) error {
	return h.Named("one-of", fingerprint.List[Matcher](o))
}

type not struct {
	Matcher Matcher
}

// Not matches when m does not.
func Not(m Matcher) Matcher {
	return not{m}
}

func (n not) Matches(ctx *Context) bool {
	return !n.Matcher.Matches(ctx)
}

func (n not) Hash(h *fingerprint.Hasher) error {
	return h.Named("not", n.Matcher)
}

type anything struct{}

// Any matches every call-site.
func Any() Matcher {
	return anything{}
}

func (anything) Matches(*Context) bool {
	return true
}

func (anything) Hash(h *fingerprint.Hasher) error {
	return h.Named("any")
}

func unmarshalList(node *yaml.Node) ([]Matcher, error) {
	var nodes []yaml.Node
	if err := node.Decode(&nodes); err != nil {
		return nil, err
	}

	list := make([]Matcher, len(nodes))
	for i := range nodes {
		var err error
		if list[i], err = FromYAML(&nodes[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func init() {
	unmarshalers["all-of"] = func(node *yaml.Node) (Matcher, error) {
		list, err := unmarshalList(node)
		if err != nil {
			return nil, err
		}
		if len(list) == 1 {
			return list[0], nil
		}
		return AllOf(list...), nil
	}

	unmarshalers["one-of"] = func(node *yaml.Node) (Matcher, error) {
		list, err := unmarshalList(node)
		if err != nil {
			return nil, err
		}
		if len(list) == 1 {
			return list[0], nil
		}
		return OneOf(list...), nil
	}

	unmarshalers["not"] = func(node *yaml.Node) (Matcher, error) {
		m, err := FromYAML(node)
		if err != nil {
			return nil, err
		}
		return Not(m), nil
	}

	unmarshalers["any"] = func(node *yaml.Node) (Matcher, error) {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return nil, err
		}
		if !enabled {
			return nil, fmt.Errorf("line %d: any must be true (use not: {any: true} to match nothing)", node.Line)
		}
		return Any(), nil
	}
}
