// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package singleton decodes the single-key YAML mappings used to express
// tagged variants, such as `name: get` or `exact-name: pkg.Foo`.
package singleton

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Unmarshal returns the only key of a singleton mapping node, along with its
// value node.
func Unmarshal(node *yaml.Node) (key string, value *yaml.Node, err error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: not a singleton mapping", node.Line)
	}

	if err := node.Content[0].Decode(&key); err != nil {
		return "", nil, err
	}

	return key, node.Content[1], nil
}
