// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/intercept/internal/fingerprint"
	"github.com/DataDog/intercept/internal/intercept/config"
	"github.com/DataDog/intercept/internal/intercept/match"
	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/resolve"
	"github.com/DataDog/intercept/internal/intercept/selector"
	"github.com/DataDog/intercept/internal/intercept/signature"
)

func TestLoadJedis(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "jedis.yml"))
	require.NoError(t, err)
	require.Len(t, cfg.Files, 1)

	def, found := cfg.Plugin("jedis-2.x")
	require.True(t, found)
	assert.Equal(t, selector.ByName("redis.clients.jedis.Jedis"), def.Selector())
	assert.Equal(t, []string{"redis.clients.jedis.Jedis"}, def.Witnesses())
	require.Len(t, def.ConstructorPoints(), 3)
	require.Len(t, def.MethodPoints(), 1)

	universe := cfg.Universe()
	assert.True(t, def.Active(universe))
	assert.Equal(t, []string{"ThreadUnsafe"}, universe.Annotations("redis.clients.jedis.Jedis"))

	r := resolve.New(universe)
	owner := "redis.clients.jedis.Jedis"
	for _, tc := range []struct {
		param   string
		handler string
	}{
		{"java.lang.String", "JedisConstructorWithStringArgInterceptor"},
		{"redis.clients.jedis.HostAndPort", "JedisConstructorWithShardInfoArgInterceptor"},
		{"redis.clients.jedis.JedisShardInfo", "JedisConstructorWithShardInfoArgInterceptor"},
		{"java.net.URI", "JedisConstructorWithUriArgInterceptor"},
	} {
		b, err := r.ResolveConstructor(def, signature.NewConstructor(owner, tc.param, "int"))
		require.NoError(t, err)
		assert.Equal(t, tc.handler, b.Handler, tc.param)
		assert.False(t, b.OverrideArgs)
	}

	b, err := r.ResolveMethod(def, signature.NewMethod(owner, "get", "java.lang.String"))
	require.NoError(t, err)
	assert.Equal(t, "JedisMethodInterceptor", b.Handler)
	assert.False(t, b.OverrideArgs)

	b, err = r.ResolveMethod(def, signature.NewMethod(owner, "get"))
	require.NoError(t, err)
	assert.False(t, b.Found())

	b, err = r.ResolveMethod(def, signature.NewMethod(owner, "close", "int"))
	require.NoError(t, err)
	assert.False(t, b.Found())
}

func TestLoadIsolatesPluginFailures(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "partial.yml"))
	require.Error(t, err)

	var names []string
	for _, def := range cfg.Plugins() {
		names = append(names, def.Name())
	}
	assert.Equal(t, []string{"good", "also-good"}, names)

	good, _ := cfg.Plugin("good")
	require.Len(t, good.MethodPoints(), 1)
	assert.True(t, good.MethodPoints()[0].OverrideArgs())

	var failed []string
	for _, inner := range flatten(err) {
		var perr *config.PluginError
		require.ErrorAs(t, inner, &perr)
		assert.True(t, strings.HasSuffix(perr.File, "partial.yml"))
		assert.Positive(t, perr.Line)
		failed = append(failed, perr.Plugin)
	}
	assert.Equal(t, []string{"unknown-matcher", "empty-handler"}, failed)
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var res []error
		for _, e := range joined.Unwrap() {
			res = append(res, flatten(e)...)
		}
		return res
	}
	return []error{err}
}

func TestLoadExtends(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "extends", "root.yml"))
	require.ErrorIs(t, err, config.ErrDuplicatePlugin)

	require.Len(t, cfg.Files, 2)
	assert.Equal(t, "root.yml", filepath.Base(cfg.Files[0]))
	assert.Equal(t, "base.yml", filepath.Base(cfg.Files[1]))

	var names []string
	for _, def := range cfg.Plugins() {
		names = append(names, def.Name())
	}
	assert.Equal(t, []string{"base", "root"}, names)

	base, _ := cfg.Plugin("base")
	assert.Equal(t, selector.BySupertype("com.example.Base"), base.Selector())
	assert.True(t, base.Selector().Matches("com.example.Root", cfg.Universe()))
}

func TestLoadUnsupportedVersion(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "future.yml"))
	require.ErrorIs(t, err, config.ErrUnsupported)
	assert.Empty(t, cfg.Plugins())
	assert.Empty(t, cfg.Files)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.ErrorContains(t, err, "no such file or directory")
	require.False(t, errors.Is(err, os.ErrNotExist))
}

func TestParse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		file, err := config.Parse("empty.yml", strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, file.Plugins)
	})

	t.Run("syntax", func(t *testing.T) {
		file, err := config.Parse("broken.yml", strings.NewReader("plugins: [\n"))
		require.Error(t, err)
		assert.Nil(t, file)
	})

	t.Run("schema", func(t *testing.T) {
		file, err := config.Parse("aspects.yml", strings.NewReader("aspects: []\n"))
		require.ErrorContains(t, err, `validate "aspects.yml"`)
		assert.Nil(t, file)
	})

	t.Run("matches programmatic definition", func(t *testing.T) {
		const src = `
plugins:
  - name: demo
    select: {name-pattern: "com.example.*"}
    constructors:
      - match: {argument-count: 0}
        handler: NoArgs
    methods:
      - match: {one-of: [{name: get}, {name: set}]}
        handler: GetSet
        override-args: true
`
		file, err := config.Parse("demo.yml", strings.NewReader(src))
		require.NoError(t, err)
		require.Len(t, file.Plugins, 1)

		want := plugin.MustNew(
			"demo",
			selector.ByNamePattern("com.example.*"),
			[]*plugin.InterceptPoint{plugin.Constructor(match.ArgumentCount(0), "NoArgs")},
			[]*plugin.InterceptPoint{plugin.Method(match.OneOf(match.Name("get"), match.Name("set")), "GetSet", plugin.WithOverrideArgs())},
		)
		assert.Equal(t, fingerprint.MustFingerprint(want), fingerprint.MustFingerprint(file.Plugins[0]))
	})
}
