// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/njharman/cuprum/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix executable bits")
	}
}

// whichMachine returns a Machine whose PATH is exactly dirs.
func whichMachine(dirs ...string) *Machine {
	m := &Machine{Env: pathEnv(dirs...), Cwd: &Cwd{}}
	return m
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	return path
}

func TestWhich_FindsExecutable(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	want := writeExecutable(t, dir, "mytool")

	m := whichMachine(dir)

	p, err := m.Which("mytool")
	require.NoError(t, err)
	assert.Equal(t, want, p.String())
}

func TestWhich_IgnoresNonExecutable(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script"), []byte("data"), 0o644))

	m := whichMachine(dir)

	_, err := m.Which("script")
	require.Error(t, err, "a file without an executable bit is not a match")
}

func TestWhich_SearchOrder(t *testing.T) {
	skipOnWindows(t)

	first := t.TempDir()
	second := t.TempDir()
	want := writeExecutable(t, first, "dup")
	writeExecutable(t, second, "dup")

	m := whichMachine(first, second)

	p, err := m.Which("dup")
	require.NoError(t, err)
	assert.Equal(t, want, p.String(), "the earliest PATH entry wins")
}

func TestWhich_UnderscoreRetriesHyphen(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	want := writeExecutable(t, dir, "my-tool")

	m := whichMachine(dir)

	p, err := m.Which("my_tool")
	require.NoError(t, err)
	assert.Equal(t, want, p.String())
}

func TestWhich_NotFound(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	m := whichMachine(dir)

	_, err := m.Which("no-such-tool")
	require.Error(t, err)

	var nfErr *command.CommandNotFoundError

	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "no-such-tool", nfErr.Program)
	assert.Equal(t, []string{dir}, nfErr.Path, "the error carries the searched path")
}
