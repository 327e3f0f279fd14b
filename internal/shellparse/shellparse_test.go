// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shellparse

import (
	"context"
	"runtime"
	"testing"

	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell utilities")
	}
}

func TestParse_SimpleCommand(t *testing.T) {
	skipOnWindows(t)

	cmd, err := Parse(local.Default(), "echo hello world")
	require.NoError(t, err)

	tokens := cmd.Formulate(0)
	require.Len(t, tokens, 3)
	assert.Equal(t, []string{"hello", "world"}, tokens[1:])
}

func TestParse_QuotedArgs(t *testing.T) {
	skipOnWindows(t)

	cmd, err := Parse(local.Default(), `echo "one arg" two`)
	require.NoError(t, err)

	tokens := cmd.Formulate(0)
	assert.Equal(t, []string{"one arg", "two"}, tokens[1:])
}

func TestParse_Pipeline(t *testing.T) {
	skipOnWindows(t)

	cmd, err := Parse(local.Default(), "echo hi | grep h")
	require.NoError(t, err)

	pipe, ok := cmd.(*command.Pipeline)
	require.True(t, ok, "a | b must parse to a pipeline")

	assert.Contains(t, pipe.Src().Formulate(0), "hi")
	assert.Contains(t, pipe.Dst().Formulate(0), "h")
}

func TestParse_Redirections(t *testing.T) {
	skipOnWindows(t)

	for _, line := range []string{
		"echo hi > out.txt",
		"grep x < in.txt",
		"echo hi 2> err.txt",
		"echo hi 2>&1",
	} {
		cmd, err := Parse(local.Default(), line)
		require.NoError(t, err, "parsing %q", line)

		_, ok := cmd.(*command.Redirect)
		assert.True(t, ok, "%q must parse to a redirect", line)
	}
}

func TestParse_PipelineRuns(t *testing.T) {
	skipOnWindows(t)

	cmd, err := Parse(local.Default(), "printf a\\\\nb\\\\nc | grep b")
	require.NoError(t, err)

	res, err := command.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "b\n", res.Stdout)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(local.Default(), "   ")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestParse_BadRedirect(t *testing.T) {
	skipOnWindows(t)

	_, err := Parse(local.Default(), "echo hi >")
	require.ErrorIs(t, err, ErrBadRedirect)
}

func TestParse_EmptyStage(t *testing.T) {
	skipOnWindows(t)

	_, err := Parse(local.Default(), "echo hi | | grep h")
	require.ErrorIs(t, err, ErrEmptyStage)
}

func TestParse_UnknownProgram(t *testing.T) {
	_, err := Parse(local.Default(), "no-such-program-at-all --flag")
	require.Error(t, err)

	var nfErr *command.CommandNotFoundError

	require.ErrorAs(t, err, &nfErr)
}
