// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataDog/intercept/internal/intercept/match"
	"github.com/DataDog/intercept/internal/intercept/signature"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

const (
	stringType      = "java.lang.String"
	uriType         = "java.net.URI"
	hostAndPortType = "redis.clients.jedis.HostAndPort"
	shardInfoType   = "redis.clients.jedis.JedisShardInfo"
	jedisType       = "redis.clients.jedis.Jedis"
)

var universe = typeinfo.NewStatic(map[string]typeinfo.Declaration{
	shardInfoType: {Supertypes: []string{hostAndPortType}},
})

func ctor(params ...string) *match.Context {
	return match.NewContext(signature.NewConstructor(jedisType, params...), universe)
}

func method(name string, params ...string) *match.Context {
	return match.NewContext(signature.NewMethod(jedisType, name, params...), universe)
}

func TestArgumentCount(t *testing.T) {
	for n := 0; n < 4; n++ {
		params := make([]string, n)
		for i := range params {
			params[i] = "int"
		}
		for want := 0; want < 4; want++ {
			assert.Equal(t, n == want, match.ArgumentCount(want).Matches(ctor(params...)), "ArgumentCount(%d) on %d params", want, n)
		}
	}
	assert.True(t, match.ArgumentCount(0).Matches(method("quit")))
}

func TestArgumentType(t *testing.T) {
	first := match.ArgumentType(0, stringType)

	assert.True(t, first.Matches(ctor(stringType)))
	assert.True(t, first.Matches(ctor(stringType, "int")))
	assert.False(t, first.Matches(ctor(uriType)))
	assert.False(t, first.Matches(ctor()))
	assert.False(t, first.Matches(ctor("int", stringType)))

	t.Run("assignable", func(t *testing.T) {
		m := match.ArgumentType(0, hostAndPortType)
		assert.True(t, m.Matches(ctor(hostAndPortType)))
		assert.True(t, m.Matches(ctor(shardInfoType)))
		assert.False(t, m.Matches(ctor(stringType)))
	})

	t.Run("exact", func(t *testing.T) {
		m := match.ArgumentTypeExact(0, hostAndPortType)
		assert.True(t, m.Matches(ctor(hostAndPortType)))
		assert.False(t, m.Matches(ctor(shardInfoType)))
	})

	t.Run("without collaborator", func(t *testing.T) {
		m := match.ArgumentType(0, hostAndPortType)
		assert.True(t, m.Matches(match.NewContext(signature.NewConstructor(jedisType, hostAndPortType), nil)))
		assert.False(t, m.Matches(match.NewContext(signature.NewConstructor(jedisType, shardInfoType), nil)))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.False(t, match.ArgumentType(2, stringType).Matches(ctor(stringType, stringType)))
		assert.False(t, match.ArgumentType(-1, stringType).Matches(ctor(stringType)))
	})
}

func TestNames(t *testing.T) {
	cases := map[string]struct {
		matcher match.Matcher
		ctx     *match.Context
		want    bool
	}{
		"name/equal":         {match.Name("get"), method("get", stringType), true},
		"name/different":     {match.Name("get"), method("set", stringType), false},
		"name/constructor":   {match.Name("get"), ctor(stringType), false},
		"pattern/prefix":     {match.NamePattern("h*"), method("hget"), true},
		"pattern/infix":      {match.NamePattern("*set*"), method("hsetnx"), true},
		"pattern/no match":   {match.NamePattern("h*"), method("get"), false},
		"pattern/exact":      {match.NamePattern("get"), method("get"), true},
		"pattern/ctor":       {match.NamePattern("*"), ctor(), false},
		"in/member":          {match.NameIn("set", "get", "del"), method("get"), true},
		"in/not member":      {match.NameIn("set", "get", "del"), method("quit"), false},
		"in/empty":           {match.NameIn(), method("get"), false},
		"in/constructor":     {match.NameIn("get"), ctor(), false},
		"in/duplicate names": {match.NameIn("get", "get"), method("get"), true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.matcher.Matches(tc.ctx))
		})
	}
}

// counting records whether it was evaluated, to observe short-circuiting.
type counting struct {
	match.Matcher
	calls int
}

func (c *counting) Matches(ctx *match.Context) bool {
	c.calls++
	return c.Matcher.Matches(ctx)
}

func TestLogic(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.True(t, match.AllOf().Matches(ctor()))
		assert.False(t, match.OneOf().Matches(ctor()))
	})

	t.Run("all-of", func(t *testing.T) {
		m := match.AllOf(match.Name("get"), match.ArgumentCount(1))
		assert.True(t, m.Matches(method("get", stringType)))
		assert.False(t, m.Matches(method("get")))
		assert.False(t, m.Matches(method("set", stringType)))
	})

	t.Run("one-of", func(t *testing.T) {
		m := match.OneOf(match.Name("get"), match.ArgumentCount(2))
		assert.True(t, m.Matches(method("get")))
		assert.True(t, m.Matches(method("set", stringType, stringType)))
		assert.False(t, m.Matches(method("set", stringType)))
	})

	t.Run("short-circuit", func(t *testing.T) {
		tail := &counting{Matcher: match.Any()}
		assert.False(t, match.AllOf(match.Not(match.Any()), tail).Matches(ctor()))
		assert.True(t, match.OneOf(match.Any(), tail).Matches(ctor()))
		assert.Zero(t, tail.calls)
	})

	t.Run("not", func(t *testing.T) {
		assert.False(t, match.Not(match.Any()).Matches(ctor()))
		assert.True(t, match.Not(match.Name("get")).Matches(ctor()))
	})

	t.Run("detached from arguments", func(t *testing.T) {
		requirements := []match.Matcher{match.Name("get")}
		all := match.AllOf(requirements...)
		one := match.OneOf(requirements...)
		requirements[0] = match.Name("set")

		assert.True(t, all.Matches(method("get")))
		assert.False(t, all.Matches(method("set")))
		assert.True(t, one.Matches(method("get")))
		assert.False(t, one.Matches(method("set")))
	})
}
