// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd_test

import (
	"bytes"
	"flag"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/DataDog/intercept/internal/cmd"
	"github.com/DataDog/intercept/internal/version"
)

func TestVersion(t *testing.T) {
	static, _ := version.TagInfo()
	built := fmt.Sprintf(" built with %s (%s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	for name, tc := range map[string]struct {
		args []string
		want string
	}{
		"standard":       {want: "intercept " + version.Tag() + "\n"},
		"static":         {args: []string{"-static"}, want: "intercept " + static + "\n"},
		"verbose":        {args: []string{"-verbose"}, want: "intercept " + version.Tag() + built + "\n"},
		"static-verbose": {args: []string{"-static", "-verbose"}, want: "intercept " + static + built + "\n"},
	} {
		t.Run(name, func(t *testing.T) {
			set := flag.NewFlagSet(name, flag.ContinueOnError)
			_ = set.Bool("verbose", false, "")
			_ = set.Bool("static", false, "")
			require.NoError(t, set.Parse(tc.args))

			var output bytes.Buffer
			ctx := cli.NewContext(&cli.App{Writer: &output}, set, nil)
			require.NoError(t, cmd.Version.Action(ctx))
			require.Equal(t, tc.want, output.String())
		})
	}
}
