// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package selector_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/intercept/internal/intercept/selector"
)

// countingHierarchy counts the ancestor lookups it serves.
type countingHierarchy struct {
	calls     atomic.Int64
	ancestors map[string][]string
}

func (h *countingHierarchy) Ancestors(name string) []string {
	h.calls.Add(1)
	return h.ancestors[name]
}

func TestCache(t *testing.T) {
	h := &countingHierarchy{ancestors: map[string][]string{"pkg.Foo": {"pkg.Base"}}}
	cache := selector.NewCache(h)
	sel := selector.BySupertype("pkg.Base")

	require.True(t, cache.Matches(sel, "pkg.Foo"))
	require.True(t, cache.Matches(sel, "pkg.Foo"))
	require.False(t, cache.Matches(sel, "pkg.Bar"))
	require.False(t, cache.Matches(sel, "pkg.Bar"))

	assert.EqualValues(t, 2, h.calls.Load())
	assert.Equal(t, 2, cache.Len())
}

func TestCacheConcurrent(t *testing.T) {
	h := &countingHierarchy{ancestors: map[string][]string{}}
	for i := 0; i < 16; i++ {
		h.ancestors[fmt.Sprintf("pkg.T%d", i)] = []string{"pkg.Base"}
	}
	cache := selector.NewCache(h)
	sel := selector.BySupertype("pkg.Base")

	var wg sync.WaitGroup
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				name := fmt.Sprintf("pkg.T%d", i)
				assert.Equal(t, i < 16, cache.Matches(sel, name))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, cache.Len())
	// Concurrent misses may race, but never more than once per goroutine per key.
	assert.LessOrEqual(t, h.calls.Load(), int64(32*32))
	assert.GreaterOrEqual(t, h.calls.Load(), int64(32))
}
