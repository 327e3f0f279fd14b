// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package fspath

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_OwnerGroup(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "owned"))
	require.NoError(t, p.Write([]byte("x")))

	owner, err := p.Owner()
	require.NoError(t, err)

	group, err := p.Group()
	require.NoError(t, err)

	me, err := user.Current()
	require.NoError(t, err)

	// The name when a passwd entry exists, the numeric id otherwise.
	assert.Contains(t, []string{me.Username, me.Uid}, owner)
	assert.NotEmpty(t, group)
}

func TestPath_ChownSelf(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "chowned"))
	require.NoError(t, p.Write([]byte("x")))

	// Re-asserting current ownership needs no privilege.
	require.NoError(t, p.Chown(os.Getuid(), os.Getgid()))
}

func TestPath_ChownNamesSelf(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "chowned"))
	require.NoError(t, p.Write([]byte("x")))

	me, err := user.Current()
	require.NoError(t, err)

	if _, err := strconv.Atoi(me.Username); err == nil {
		t.Skip("current user has a numeric login name")
	}

	require.NoError(t, p.ChownNames(me.Username, ""))
}

func TestPath_OwnerMissingFile(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "nope"))

	_, err := p.Owner()
	require.Error(t, err)
}
