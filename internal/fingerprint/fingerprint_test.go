// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/intercept/internal/fingerprint"
)

func TestCast(t *testing.T) {
	type mySlice []int
	require.Equal(
		t,
		fingerprint.List[fingerprint.Int]{0, -1, -2},
		fingerprint.Cast(mySlice{0, 1, 2}, func(i int) fingerprint.Int { return fingerprint.Int(-i) }),
	)
}

func TestFingerprint(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		fp, err := fingerprint.Fingerprint(nil)
		require.NoError(t, err)
		// SHA-256 of the empty input.
		require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", fp)
	})

	t.Run("deterministic", func(t *testing.T) {
		val := fingerprint.Strings([]string{"a", "b"})
		require.Equal(t, fingerprint.MustFingerprint(val), fingerprint.MustFingerprint(fingerprint.Strings([]string{"a", "b"})))
	})

	t.Run("order sensitive lists", func(t *testing.T) {
		require.NotEqual(t,
			fingerprint.MustFingerprint(fingerprint.Strings([]string{"a", "b"})),
			fingerprint.MustFingerprint(fingerprint.Strings([]string{"b", "a"})),
		)
	})

	t.Run("framing", func(t *testing.T) {
		require.NotEqual(t,
			fingerprint.MustFingerprint(fingerprint.Strings([]string{"ab", "c"})),
			fingerprint.MustFingerprint(fingerprint.Strings([]string{"a", "bc"})),
		)
	})

	t.Run("bool", func(t *testing.T) {
		require.NotEqual(t,
			fingerprint.MustFingerprint(fingerprint.Bool(true)),
			fingerprint.MustFingerprint(fingerprint.Bool(false)),
		)
	})

	t.Run("map order insensitive", func(t *testing.T) {
		fn := func(k string, v int) (string, fingerprint.Int) { return k, fingerprint.Int(v) }
		a := fingerprint.Map(map[string]int{"x": 1, "y": 2, "z": 3}, fn)
		b := fingerprint.Map(map[string]int{"z": 3, "y": 2, "x": 1}, fn)
		require.Equal(t, fingerprint.MustFingerprint(a), fingerprint.MustFingerprint(b))
	})
}
