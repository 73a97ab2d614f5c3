// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// closeOnExec keeps the log file from leaking into the go commands run while
// loading packages.
func closeOnExec(file *os.File) {
	unix.CloseOnExec(int(file.Fd()))
}
