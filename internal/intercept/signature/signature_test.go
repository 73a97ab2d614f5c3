// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/intercept/internal/intercept/signature"
)

func TestConstructors(t *testing.T) {
	params := []string{"string", "int"}
	sig := signature.NewConstructor("redis.Jedis", params...)
	params[0] = "mutated"

	require.NoError(t, sig.Validate())
	assert.Equal(t, []string{"string", "int"}, sig.Params())
	assert.Equal(t, 2, sig.NumParams())
	_, named := sig.MemberName()
	assert.False(t, named)
	assert.Equal(t, "redis.Jedis.<init>(string, int)", sig.String())

	method := signature.NewMethod("redis.Jedis", "get", "string")
	require.NoError(t, method.Validate())
	name, named := method.MemberName()
	assert.True(t, named)
	assert.Equal(t, "get", name)
	assert.Equal(t, "redis.Jedis.get(string)", method.String())
}

func TestParamsAreNotShared(t *testing.T) {
	sig := signature.NewMethod("redis.Jedis", "set", "string", "string")
	fp := sig.String()

	params := sig.Params()
	params[0] = "int"
	copied := sig
	copied.Params()[1] = "int"

	assert.Equal(t, fp, sig.String())
	p, _ := copied.Param(1)
	assert.Equal(t, "string", p)
	assert.Nil(t, signature.NewConstructor("redis.Jedis").Params())
}

func TestParam(t *testing.T) {
	sig := signature.NewConstructor("redis.Jedis", "string")

	p, ok := sig.Param(0)
	assert.True(t, ok)
	assert.Equal(t, "string", p)

	_, ok = sig.Param(1)
	assert.False(t, ok)
	_, ok = sig.Param(-1)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		sig signature.Signature
		err error
	}{
		"no owner":          {sig: signature.Signature{Kind: signature.Constructor}, err: signature.ErrNoOwner},
		"zero kind":         {sig: signature.Signature{Owner: "T"}, err: signature.ErrUnknownKind},
		"unnamed method":    {sig: signature.Signature{Owner: "T", Kind: signature.Method}, err: signature.ErrMissingName},
		"blank method name": {sig: signature.Signature{Owner: "T", Kind: signature.Method, HasName: true}, err: signature.ErrMissingName},
		"named constructor": {sig: signature.Signature{Owner: "T", Kind: signature.Constructor, Name: "x", HasName: true}, err: signature.ErrConstructorNamed},
		"empty param":       {sig: signature.NewMethod("T", "m", "int", ""), err: signature.ErrEmptyParamType},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, tc.sig.Validate(), tc.err)
		})
	}
}
