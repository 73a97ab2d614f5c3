// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package match

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/fingerprint"
)

type argumentCount int

// ArgumentCount matches call-sites taking exactly n parameters.
func ArgumentCount(n int) Matcher {
	return argumentCount(n)
}

func (n argumentCount) Matches(ctx *Context) bool {
	return ctx.Signature.NumParams() == int(n)
}

func (n argumentCount) Hash(h *fingerprint.Hasher) error {
	return h.Named("argument-count", fingerprint.Int(n))
}

type argumentType struct {
	Position int
	TypeName string
	Exact    bool
}

// ArgumentType matches call-sites whose parameter at position is declared
// with typeName, or with a type assignable to typeName.
func ArgumentType(position int, typeName string) Matcher {
	return &argumentType{Position: position, TypeName: typeName}
}

// ArgumentTypeExact matches call-sites whose parameter at position is declared
// with exactly typeName. Assignable types do not match.
func ArgumentTypeExact(position int, typeName string) Matcher {
	return &argumentType{Position: position, TypeName: typeName, Exact: true}
}

func (a *argumentType) Matches(ctx *Context) bool {
	actual, ok := ctx.Signature.Param(a.Position)
	if !ok {
		return false
	}
	if a.Exact {
		return actual == a.TypeName
	}
	return ctx.IsAssignable(actual, a.TypeName)
}

func (a *argumentType) Hash(h *fingerprint.Hasher) error {
	name := "argument-type"
	if a.Exact {
		name = "argument-type-exact"
	}
	return h.Named(name, fingerprint.Int(a.Position), fingerprint.String(a.TypeName))
}

func init() {
	unmarshalers["argument-count"] = func(node *yaml.Node) (Matcher, error) {
		var n int
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("line %d: argument-count must not be negative", node.Line)
		}
		return ArgumentCount(n), nil
	}

	unmarshalArgumentType := func(exact bool) unmarshalerFn {
		return func(node *yaml.Node) (Matcher, error) {
			var arg struct {
				Position int    `yaml:"position"`
				Type     string `yaml:"type"`
			}
			if err := node.Decode(&arg); err != nil {
				return nil, err
			}
			if arg.Position < 0 {
				return nil, fmt.Errorf("line %d: position must not be negative", node.Line)
			}
			if arg.Type == "" {
				return nil, fmt.Errorf("line %d: type is required", node.Line)
			}
			if exact {
				return ArgumentTypeExact(arg.Position, arg.Type), nil
			}
			return ArgumentType(arg.Position, arg.Type), nil
		}
	}
	unmarshalers["argument-type"] = unmarshalArgumentType(false)
	unmarshalers["argument-type-exact"] = unmarshalArgumentType(true)
}
