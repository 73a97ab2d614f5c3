// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	_ "embed" // For go:embed
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	//go:embed "schema.json"
	schemaBytes []byte
	schemaURL   string

	fileSchema   *jsonschema.Schema
	pluginSchema *jsonschema.Schema
	schemaOnce   sync.Once
)

// ValidateObject checks a whole configuration file (decoded as generic
// values) against the embedded JSON schema. Plugins are only checked to be
// objects; use [ValidatePlugin] on each of them.
func ValidateObject(obj map[string]any) error {
	schemaOnce.Do(compileSchema)
	return fileSchema.Validate(obj)
}

// ValidatePlugin checks a single plugin entry against the embedded JSON
// schema.
func ValidatePlugin(obj any) error {
	schemaOnce.Do(compileSchema)
	return pluginSchema.Validate(obj)
}

func compileSchema() {
	var rawSchema map[string]any
	if err := json.Unmarshal(schemaBytes, &rawSchema); err != nil {
		panic(fmt.Errorf("parsing JSON schema: %w", err))
	}
	schemaURL, _ = rawSchema["$id"].(string)

	compiler := jsonschema.NewCompiler()
	compiler.UseRegexpEngine(regexpEngine)
	if err := compiler.AddResource(schemaURL, rawSchema); err != nil {
		panic(fmt.Errorf("preparing JSON schema compiler: %w", err))
	}

	var err error
	if fileSchema, err = compiler.Compile(schemaURL); err != nil {
		panic(fmt.Errorf("compiling JSON schema: %w", err))
	}
	if pluginSchema, err = compiler.Compile(schemaURL + "#/$defs/plugin"); err != nil {
		panic(fmt.Errorf("compiling JSON schema: %w", err))
	}
}

type re2 regexp2.Regexp

func (re *re2) MatchString(s string) bool {
	matched, err := (*regexp2.Regexp)(re).MatchString(s)
	return err == nil && matched
}

func (re *re2) String() string {
	return (*regexp2.Regexp)(re).String()
}

// regexpEngine evaluates schema patterns with ECMAScript semantics, as the
// JSON schema specification requires.
func regexpEngine(s string) (jsonschema.Regexp, error) {
	re, err := regexp2.Compile(s, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	return (*re2)(re), nil
}
