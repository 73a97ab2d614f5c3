// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package fingerprint computes stable content hashes of matcher, selector and
// plugin definition trees. Two structurally identical trees always produce the
// same fingerprint, regardless of pointer identity.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"sync"
)

type Hasher struct {
	hash hash.Hash
}

type Hashable interface {
	Hash(h *Hasher) error
}

var pool = sync.Pool{New: func() any { return &Hasher{hash: sha256.New()} }}

// Fingerprint returns the hex-encoded SHA-256 digest of val.
func Fingerprint(val Hashable) (string, error) {
	h, _ := pool.Get().(*Hasher)
	defer func() {
		h.hash.Reset()
		pool.Put(h)
	}()

	if val != nil {
		if err := val.Hash(h); err != nil {
			return "", err
		}
	}

	var buf [sha256.Size]byte
	return hex.EncodeToString(h.hash.Sum(buf[:0])), nil
}

// MustFingerprint is the same as Fingerprint, except it panics on error. The
// in-memory hasher never fails to write, so this is only expected to panic if
// a Hashable implementation itself returns an error.
func MustFingerprint(val Hashable) string {
	fp, err := Fingerprint(val)
	if err != nil {
		panic(err)
	}
	return fp
}

// Named frames the provided values under name, so that sibling values can
// never be confused with one another.
func (h *Hasher) Named(name string, vals ...Hashable) error {
	if _, err := fmt.Fprintf(h.hash, "\x01%s\x02", name); err != nil {
		return err
	}

	for idx, val := range vals {
		if _, err := fmt.Fprintf(h.hash, "\x01%d\x02", idx); err != nil {
			return err
		}
		if val == nil {
			if _, err := fmt.Fprint(h.hash, "\x00"); err != nil {
				return err
			}
		} else if err := val.Hash(h); err != nil {
			return err
		}
		if _, err := fmt.Fprint(h.hash, "\x03"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(h.hash, "\x03", name)
	return err
}
