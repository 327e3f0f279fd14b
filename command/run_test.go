// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell utilities")
	}
}

func TestRun_Success(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), New("echo").With("hello"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestRun_ExitCodeMismatch(t *testing.T) {
	skipOnWindows(t)

	cmd := New("sh").With("-c", "echo oops >&2; exit 2")

	_, err := Run(context.Background(), cmd)
	require.Error(t, err)

	var execErr *ProcessExecutionError

	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 2, execErr.ExitCode, "carried exit code must equal the child's actual exit code")
	assert.Contains(t, execErr.Stderr, "oops")
	assert.NotEmpty(t, execErr.Argv)
}

func TestRun_ExpectedNonZero(t *testing.T) {
	skipOnWindows(t)

	cmd := New("sh").With("-c", "exit 7")

	res, err := Run(context.Background(), cmd, WithExpect(Expect(7)))
	require.NoError(t, err)
	assert.Equal(t, 7, res.ExitCode)
}

func TestRun_ExpectedSet(t *testing.T) {
	skipOnWindows(t)

	cmd := New("sh").With("-c", "exit 3")

	res, err := Run(context.Background(), cmd, WithExpect(Expect(0, 3, 5)))
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_AnyExit(t *testing.T) {
	skipOnWindows(t)

	cmd := New("sh").With("-c", "exit 42")

	res, err := Run(context.Background(), cmd, WithExpect(AnyExit))
	require.NoError(t, err)
	assert.Equal(t, 42, res.ExitCode)
}

func TestRun_CommandNotFound(t *testing.T) {
	_, err := Run(context.Background(), New("definitely-not-a-real-program-xyz"))
	require.Error(t, err)

	var nfErr *CommandNotFoundError

	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "definitely-not-a-real-program-xyz", nfErr.Program)
}

func TestRun_CwdAndEnv(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	cmd := New("sh").With("-c", "echo $FOO; pwd")

	res, err := Run(context.Background(), cmd,
		WithCwd(dir),
		WithEnv(map[string]string{"FOO": "BAR"}),
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "BAR", lines[0])

	got, err := filepath.EvalSymlinks(lines[1])
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_Pipeline(t *testing.T) {
	skipOnWindows(t)

	// A directory listing piped through grep returns only matching lines.
	dir := t.TempDir()
	for _, name := range []string{"alpha.txt", "beta.txt", "beta.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	pipe := New("ls").With(dir).Pipe(New("grep").With("beta"))

	res, err := Run(context.Background(), pipe)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode, "grep exits 0 when at least one line matches")

	lines := strings.Fields(res.Stdout)
	assert.ElementsMatch(t, []string{"beta.txt", "beta.log"}, lines)
}

func TestRun_PipelineStdinData(t *testing.T) {
	skipOnWindows(t)

	grep := New("grep").With("b")
	cmd := WithStdinData(grep, "a\nb\nc")

	res, err := Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "b\n", res.Stdout)
}

func TestRun_StdinDataLarge(t *testing.T) {
	skipOnWindows(t)

	// Larger than one buffering chunk.
	data := strings.Repeat("x", stdinChunkSize*2+17)

	res, err := Run(context.Background(), WithStdinData(New("wc").With("-c"), data))
	require.NoError(t, err)
	assert.Equal(t, len(data), atoi(t, res.Stdout))
}

func atoi(t *testing.T, s string) int {
	t.Helper()

	n := 0
	for _, c := range strings.TrimSpace(s) {
		require.True(t, c >= '0' && c <= '9', "expected digits, got %q", s)
		n = n*10 + int(c-'0')
	}

	return n
}

func TestOutput(t *testing.T) {
	skipOnWindows(t)

	out, err := Output(context.Background(), New("echo").With("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}
