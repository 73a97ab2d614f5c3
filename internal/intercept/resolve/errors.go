// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package resolve

import (
	"errors"
	"fmt"

	"github.com/DataDog/intercept/internal/intercept/signature"
)

// ErrKindMismatch is reported when a constructor signature is resolved
// against method points, or the other way around.
var ErrKindMismatch = errors.New("member kind mismatch")

// ResolutionError reports a structurally invalid signature. It denotes a bug
// in the caller or its type-introspection collaborator; retrying yields the
// same result.
type ResolutionError struct {
	Signature signature.Signature
	// Plugin is the name of the plugin being resolved, if known.
	Plugin string
	Reason error
}

func (e *ResolutionError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("plugin %q: cannot resolve %s: %v", e.Plugin, e.Signature, e.Reason)
	}
	return fmt.Sprintf("cannot resolve %s: %v", e.Signature, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.Reason
}
