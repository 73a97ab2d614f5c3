// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

//go:build unix

package log

import (
	"os"

	"golang.org/x/sys/unix"
)

// Flock takes an exclusive advisory lock on file, blocking until it is
// available.
func Flock(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_EX)
}

// FUnlock releases the lock taken by Flock.
func FUnlock(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
