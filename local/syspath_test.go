// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"strings"
	"testing"

	"github.com/njharman/cuprum/fspath"
	"github.com/stretchr/testify/assert"
)

func pathEnv(dirs ...string) *Env {
	return testEnv("PATH=" + strings.Join(dirs, string(os.PathListSeparator)))
}

func TestSystemPath_List(t *testing.T) {
	skipOnWindows(t)

	e := pathEnv("/usr/bin", "/bin")

	got := e.Path().Strings()
	assert.Equal(t, []string{"/usr/bin", "/bin"}, got)
}

func TestSystemPath_ListSkipsEmpty(t *testing.T) {
	skipOnWindows(t)

	e := testEnv("PATH=/usr/bin" + string(os.PathListSeparator) + string(os.PathListSeparator) + "/bin")

	assert.Equal(t, []string{"/usr/bin", "/bin"}, e.Path().Strings())
}

func TestSystemPath_AppendPrepend(t *testing.T) {
	skipOnWindows(t)

	e := pathEnv("/bin")
	sp := e.Path()

	sp.Append(fspath.New("/opt/tools"))
	assert.Equal(t, []string{"/bin", "/opt/tools"}, sp.Strings())

	sp.Prepend(fspath.New("/override"))
	assert.Equal(t, []string{"/override", "/bin", "/opt/tools"}, sp.Strings())

	// Mutations write through to the owning environment.
	raw := e.GetDefault("PATH", "")
	assert.Contains(t, raw, "/override")
}

func TestSystemPath_Remove(t *testing.T) {
	skipOnWindows(t)

	e := pathEnv("/a", "/b", "/a")
	sp := e.Path()

	sp.Remove(fspath.New("/a"))
	assert.Equal(t, []string{"/b"}, sp.Strings(), "every occurrence is dropped")
}

func TestSystemPath_Contains(t *testing.T) {
	skipOnWindows(t)

	sp := pathEnv("/usr/bin", "/bin").Path()

	assert.True(t, sp.Contains(fspath.New("/bin")))
	assert.False(t, sp.Contains(fspath.New("/sbin")))
}
