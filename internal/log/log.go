// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package log is a small leveled logger writing to a single, process-wide
// output. Messages are prefixed with their level and the current context
// entries, in insertion order.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	level            = LevelNone
	writer io.Writer = os.Stderr
	// writerM serializes writes, and guards writer.
	writerM sync.Mutex

	context     = make(map[string]string)
	contextKeys []string
	contextM    sync.RWMutex
)

// Close closes the current output if it is a file other than the standard
// streams, reverts output to os.Stderr, and clears the context.
func Close() (err error) {
	writerM.Lock()
	defer writerM.Unlock()

	if closer, ok := writer.(io.Closer); ok && writer != os.Stderr && writer != os.Stdout {
		err = closer.Close()
	}
	writer = os.Stderr

	contextM.Lock()
	defer contextM.Unlock()
	context = make(map[string]string)
	contextKeys = nil

	return err
}

func SetLevel(l Level) {
	writerM.Lock()
	defer writerM.Unlock()
	level = l
}

// Enabled reports whether messages at l are currently written.
func Enabled(l Level) bool {
	writerM.Lock()
	defer writerM.Unlock()
	return l <= level
}

// SetOutput redirects log output to w. Writes to an *os.File are protected by
// an advisory lock, so that several processes can share the same log file.
func SetOutput(w io.Writer) {
	writerM.Lock()
	defer writerM.Unlock()

	writer = w
}

// SetContext adds (or, with an empty value, removes) a context entry.
func SetContext(key string, value string) {
	contextM.Lock()
	defer contextM.Unlock()

	if value != "" {
		if _, found := context[key]; !found {
			contextKeys = append(contextKeys, key)
		}
		context[key] = value
		return
	}

	delete(context, key)
	for i := 0; i < len(contextKeys); {
		if contextKeys[i] == key {
			contextKeys = append(contextKeys[:i], contextKeys[i+1:]...)
		} else {
			i++
		}
	}
}

func Errorf(format string, args ...any) {
	write(LevelError, format, args...)
}

func Warnf(format string, args ...any) {
	write(LevelWarn, format, args...)
}

func Infof(format string, args ...any) {
	write(LevelInfo, format, args...)
}

func Debugf(format string, args ...any) {
	write(LevelDebug, format, args...)
}

func Tracef(format string, args ...any) {
	write(LevelTrace, format, args...)
}

func write(at Level, format string, args ...any) {
	writerM.Lock()
	defer writerM.Unlock()

	if at > level || at == LevelNone {
		return
	}

	if file, ok := writer.(*os.File); ok {
		// Lines from concurrent processes sharing the file must not interleave.
		if err := Flock(file); err == nil {
			defer func() { _ = FUnlock(file) }()
		}
	}

	var line strings.Builder
	fmt.Fprintf(&line, "[%-7s", at)

	contextM.RLock()
	for _, key := range contextKeys {
		fmt.Fprintf(&line, "|%s=%s", key, context[key])
	}
	contextM.RUnlock()

	line.WriteString("] ")
	fmt.Fprintf(&line, format, args...)
	if !strings.HasSuffix(line.String(), "\n") {
		line.WriteByte('\n')
	}

	_, _ = io.WriteString(writer, line.String())
}
