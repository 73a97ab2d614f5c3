// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

//go:build windows

package log

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockRange covers the whole file.
const lockRange = ^uint32(0)

// Flock takes an exclusive lock on file, blocking until it is available.
func Flock(file *os.File) error {
	return windows.LockFileEx(windows.Handle(file.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, lockRange, lockRange, &windows.Overlapped{})
}

// FUnlock releases the lock taken by Flock.
func FUnlock(file *os.File) error {
	return windows.UnlockFileEx(windows.Handle(file.Fd()), 0, lockRange, lockRange, &windows.Overlapped{})
}
