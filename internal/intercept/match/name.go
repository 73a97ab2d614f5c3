// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package match

import (
	"fmt"
	"slices"

	"github.com/ryanuber/go-glob"
	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/fingerprint"
)

// Name matchers never match constructors, which have no member name.

type name string

// Name matches methods called exactly name.
func Name(n string) Matcher {
	return name(n)
}

func (n name) Matches(ctx *Context) bool {
	member, ok := ctx.Signature.MemberName()
	return ok && member == string(n)
}

func (n name) Hash(h *fingerprint.Hasher) error {
	return h.Named("name", fingerprint.String(n))
}

type namePattern string

// NamePattern matches methods whose name matches the glob pattern, where `*`
// stands for any sequence of characters.
func NamePattern(pattern string) Matcher {
	return namePattern(pattern)
}

func (p namePattern) Matches(ctx *Context) bool {
	member, ok := ctx.Signature.MemberName()
	return ok && glob.Glob(string(p), member)
}

func (p namePattern) Hash(h *fingerprint.Hasher) error {
	return h.Named("name-pattern", fingerprint.String(p))
}

type nameIn []string

// NameIn matches methods called by any of the provided names.
func NameIn(names ...string) Matcher {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return nameIn(slices.Compact(sorted))
}

func (n nameIn) Matches(ctx *Context) bool {
	member, ok := ctx.Signature.MemberName()
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(n, member)
	return found
}

func (n nameIn) Hash(h *fingerprint.Hasher) error {
	return h.Named("name-in", fingerprint.Strings(n))
}

func init() {
	unmarshalers["name"] = func(node *yaml.Node) (Matcher, error) {
		var n string
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		if n == "" {
			return nil, fmt.Errorf("line %d: name cannot be empty", node.Line)
		}
		return Name(n), nil
	}

	unmarshalers["name-pattern"] = func(node *yaml.Node) (Matcher, error) {
		var pattern string
		if err := node.Decode(&pattern); err != nil {
			return nil, err
		}
		if pattern == "" {
			return nil, fmt.Errorf("line %d: name-pattern cannot be empty", node.Line)
		}
		return NamePattern(pattern), nil
	}

	unmarshalers["name-in"] = func(node *yaml.Node) (Matcher, error) {
		var names []string
		if err := node.Decode(&names); err != nil {
			return nil, err
		}
		return NameIn(names...), nil
	}
}
