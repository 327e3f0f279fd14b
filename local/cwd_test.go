// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCwd_GetChdir(t *testing.T) {
	c := &Cwd{}

	orig, err := os.Getwd()
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.Chdir(orig) })

	dir := t.TempDir()
	require.NoError(t, c.Chdir(dir))

	got, err := c.Get()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, mustEval(t, got.String()))
}

func TestCwd_Pushd(t *testing.T) {
	c := &Cwd{}

	orig, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()

	err = c.Pushd(dir, func() error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		assert.Equal(t, mustEval(t, dir), mustEval(t, wd))

		return nil
	})
	require.NoError(t, err)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, orig, after, "pushd returns to the previous directory")
}

func TestCwd_PushdRestoresOnError(t *testing.T) {
	c := &Cwd{}

	orig, err := os.Getwd()
	require.NoError(t, err)

	boom := errors.New("boom")

	err = c.Pushd(t.TempDir(), func() error { return boom })
	require.ErrorIs(t, err, boom)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, orig, after)
}

func TestCwd_PushdMissingDir(t *testing.T) {
	c := &Cwd{}

	orig, err := os.Getwd()
	require.NoError(t, err)

	err = c.Pushd(filepath.Join(t.TempDir(), "missing"), func() error {
		t.Fatal("fn must not run when the directory cannot be entered")
		return nil
	})
	require.Error(t, err)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, orig, after)
}

func mustEval(t *testing.T, path string) string {
	t.Helper()

	out, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)

	return out
}
