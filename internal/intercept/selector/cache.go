// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package selector

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
	"github.com/DataDog/intercept/internal/log"
)

// Cache memoizes selection results for the lifetime of a hierarchy
// collaborator, since loaded types never change. Entries are inserted once per
// key; concurrent lookups of a missing key share a single evaluation, and a
// racing store of the same key is idempotent.
type Cache struct {
	hierarchy typeinfo.Hierarchy
	entries   sync.Map // map[cacheKey]bool
	group     singleflight.Group
}

type cacheKey struct {
	selector Selector
	typeName string
}

// NewCache returns an empty cache evaluating selectors against h.
func NewCache(h typeinfo.Hierarchy) *Cache {
	return &Cache{hierarchy: h}
}

// Matches returns the (possibly cached) result of sel.Matches(typeName, h).
func (c *Cache) Matches(sel Selector, typeName string) bool {
	key := cacheKey{selector: sel, typeName: typeName}
	if res, ok := c.entries.Load(key); ok {
		return res.(bool)
	}

	flight := fingerprint.MustFingerprint(sel) + "\x00" + typeName
	res, _, _ := c.group.Do(flight, func() (any, error) {
		if res, ok := c.entries.Load(key); ok {
			return res, nil
		}
		log.Debugf("selector cache miss: %s on %q\n", sel, typeName)
		matched := sel.Matches(typeName, c.hierarchy)
		actual, _ := c.entries.LoadOrStore(key, matched)
		return actual, nil
	})
	return res.(bool)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
