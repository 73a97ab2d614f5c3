// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package match

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/intercept/singleton"
)

type unmarshalerFn func(*yaml.Node) (Matcher, error)

var unmarshalers = make(map[string]unmarshalerFn)

// FromYAML decodes a matcher from its YAML representation, a singleton
// mapping whose key names the matcher variant.
func FromYAML(node *yaml.Node) (Matcher, error) {
	key, value, err := singleton.Unmarshal(node)
	if err != nil {
		return nil, err
	}

	unmarshaler, found := unmarshalers[key]
	if !found {
		return nil, fmt.Errorf("line %d: unknown matcher type %q", node.Line, key)
	}

	return unmarshaler(value)
}
