// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicatePlugin = errors.New("a plugin with the same name was already loaded")
	ErrUnsupported     = errors.New("configuration requires a newer version")
)

// PluginError reports a plugin entry that could not be loaded. Other plugins
// from the same file are not affected.
type PluginError struct {
	// File is the configuration file declaring the plugin.
	File string
	// Line is the line where the plugin entry starts.
	Line int
	// Plugin is the plugin name, if it could be determined.
	Plugin string
	// Err is the underlying cause.
	Err error
}

func (e *PluginError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("%s:%d: plugin: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: plugin %q: %v", e.File, e.Line, e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}
