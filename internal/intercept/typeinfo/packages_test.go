// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package typeinfo_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/DataDog/intercept/internal/intercept/typeinfo"
)

const clientSource = `package redis

type Cmdable interface {
	Get(key string) string
}

type Closer interface {
	Close() error
}

type baseClient struct{}

func (*baseClient) Close() error { return nil }

//intercept:annotate Traced
type Client struct {
	*baseClient
}

func (c *Client) Get(key string) string { return key }

type HostAndPort struct {
	Host string
	Port int
}

type ShardInfo struct {
	HostAndPort
}
`

func loadClientPackage(t *testing.T) *typeinfo.Packages {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "client.go", clientSource, parser.ParseComments)
	require.NoError(t, err)

	conf := types.Config{}
	tpkg, err := conf.Check("example.com/redis", fset, []*ast.File{file}, nil)
	require.NoError(t, err)

	return typeinfo.FromPackages([]*packages.Package{{
		PkgPath: "example.com/redis",
		Types:   tpkg,
		Syntax:  []*ast.File{file},
		Fset:    fset,
	}})
}

func TestPackagesAssignability(t *testing.T) {
	u := loadClientPackage(t)

	assert.True(t, u.IsAssignable("*example.com/redis.Client", "example.com/redis.Cmdable"))
	assert.True(t, u.IsAssignable("*example.com/redis.Client", "example.com/redis.Closer"))
	assert.False(t, u.IsAssignable("example.com/redis.Client", "example.com/redis.Cmdable"))
	assert.False(t, u.IsAssignable("example.com/redis.ShardInfo", "example.com/redis.HostAndPort"))
	assert.True(t, u.IsAssignable("string", "string"))
	assert.True(t, u.IsAssignable("string", "any"))
	assert.False(t, u.IsAssignable("string", "example.com/redis.Missing"))
}

func TestPackagesAncestors(t *testing.T) {
	u := loadClientPackage(t)

	assert.Equal(t,
		[]string{"example.com/redis.Closer", "example.com/redis.Cmdable", "example.com/redis.baseClient"},
		u.Ancestors("example.com/redis.Client"),
	)
	assert.Equal(t, []string{"example.com/redis.HostAndPort"}, u.Ancestors("example.com/redis.ShardInfo"))
	assert.Nil(t, u.Ancestors("example.com/redis.Missing"))
}

func TestPackagesAnnotations(t *testing.T) {
	u := loadClientPackage(t)

	assert.Equal(t, []string{"Traced"}, u.Annotations("example.com/redis.Client"))
	assert.Equal(t, []string{"Traced"}, u.Annotations("*example.com/redis.Client"))
	assert.Empty(t, u.Annotations("example.com/redis.ShardInfo"))
}

func TestPackagesKnown(t *testing.T) {
	u := loadClientPackage(t)

	assert.True(t, u.Known("example.com/redis.Client"))
	assert.True(t, u.Known("*example.com/redis.Client"))
	assert.True(t, u.Known("[]example.com/redis.Client"))
	assert.True(t, u.Known("error"))
	assert.False(t, u.Known("example.com/redis.Missing"))
}
