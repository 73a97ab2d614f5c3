// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package builtin contains the plugin definitions that ship with the tool.
package builtin

import (
	"github.com/DataDog/intercept/internal/intercept/match"
	"github.com/DataDog/intercept/internal/intercept/plugin"
	"github.com/DataDog/intercept/internal/intercept/selector"
	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

const (
	JedisType       = "redis.clients.jedis.Jedis"
	HostAndPortType = "redis.clients.jedis.HostAndPort"
	ShardInfoType   = "redis.clients.jedis.JedisShardInfo"
	BinaryJedisType = "redis.clients.jedis.BinaryJedis"
	JedisPluginName = "jedis-2.x"
	stringType      = "java.lang.String"
	uriType         = "java.net.URI"
	jedisHandler    = "JedisMethodInterceptor"
)

// RedisCommands are the Jedis method names routed to the command handler. Each
// of them takes at least one argument.
var RedisCommands = []string{
	"append", "bitcount", "decr", "decrBy", "del", "echo", "exists", "expire",
	"get", "getSet", "hdel", "hexists", "hget", "hgetAll", "hincrBy", "hkeys",
	"hlen", "hmget", "hmset", "hset", "hsetnx", "hvals", "incr", "incrBy",
	"lindex", "llen", "lpop", "lpush", "lrange", "lrem", "lset", "ltrim",
	"mget", "mset", "persist", "pexpire", "rpop", "rpush", "sadd", "scard",
	"set", "setex", "setnx", "sismember", "smembers", "spop", "srem", "strlen",
	"ttl", "type", "zadd", "zcard", "zincrby", "zrange", "zrank", "zrem",
	"zscore",
}

// Jedis intercepts the Jedis 2.x client. Constructor points are ordered so
// that the String overload wins over HostAndPort, which wins over URI.
var Jedis = plugin.MustNew(
	JedisPluginName,
	selector.ByName(JedisType),
	[]*plugin.InterceptPoint{
		plugin.Constructor(match.ArgumentTypeExact(0, stringType), "JedisConstructorWithStringArgInterceptor"),
		plugin.Constructor(match.ArgumentType(0, HostAndPortType), "JedisConstructorWithShardInfoArgInterceptor"),
		plugin.Constructor(match.ArgumentTypeExact(0, uriType), "JedisConstructorWithUriArgInterceptor"),
	},
	[]*plugin.InterceptPoint{
		plugin.Method(
			match.AllOf(match.NameIn(RedisCommands...), match.Not(match.ArgumentCount(0))),
			jedisHandler,
		),
	},
	plugin.WithWitnesses(JedisType),
)

// Definitions returns every built-in plugin definition.
func Definitions() []*plugin.Definition {
	return []*plugin.Definition{Jedis}
}

// Types returns the type hierarchy the built-in definitions rely on.
func Types() map[string]typeinfo.Declaration {
	return map[string]typeinfo.Declaration{
		JedisType:     {Supertypes: []string{BinaryJedisType}},
		ShardInfoType: {Supertypes: []string{HostAndPortType}},
	}
}
