// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package selector

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/intercept/internal/intercept/singleton"
)

// FromYAML decodes a selector from a singleton mapping such as
// `exact-name: redis.clients.jedis.Jedis`.
func FromYAML(node *yaml.Node) (Selector, error) {
	key, value, err := singleton.Unmarshal(node)
	if err != nil {
		return Selector{}, err
	}

	kind, found := KindNamed(key)
	if !found {
		return Selector{}, fmt.Errorf("line %d: unknown selector type %q", node.Line, key)
	}

	sel := Selector{Kind: kind}
	if err := value.Decode(&sel.Value); err != nil {
		return Selector{}, err
	}
	if err := sel.Validate(); err != nil {
		return Selector{}, fmt.Errorf("line %d: %w", value.Line, err)
	}
	return sel, nil
}
