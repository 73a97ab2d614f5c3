// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package log

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the verbosity of the logger. Each level includes every level
// below it. A *Level can back a command-line flag.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn // plugins rejected while loading
	LevelInfo
	LevelDebug // selector cache misses
	LevelTrace // every resolved binding
)

// ErrUnknownLevel is returned by [Level.Set] for names [LevelNamed] does not
// recognize.
var ErrUnknownLevel = errors.New("unknown log level")

// LevelNamed returns the level with the given case-insensitive name.
func LevelNamed(name string) (Level, bool) {
	switch strings.ToUpper(name) {
	case "NONE", "OFF":
		return LevelNone, true
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	default:
		return LevelNone, false
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "NONE"
	}
}

// Set implements [flag.Value].
func (l *Level) Set(name string) error {
	level, found := LevelNamed(name)
	if !found {
		return fmt.Errorf("%w %q", ErrUnknownLevel, name)
	}
	*l = level
	return nil
}
