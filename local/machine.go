// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package local is the entry point to everything on the local machine:
// command creation with PATH lookup, environment manipulation with scoped
// overrides, working-directory control and temporary directories.
package local

import (
	"os"
	"strings"
	"sync"

	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/fspath"
)

// Machine represents the local machine. Commands created on it read its
// environment at spawn time, so scoped environment changes are visible to
// children spawned inside the scope.
type Machine struct {
	Env *Env
	Cwd *Cwd
}

// New returns a Machine seeded from the process environment.
func New() *Machine {
	return &Machine{
		Env: NewEnv(),
		Cwd: &Cwd{},
	}
}

var (
	defaultOnce sync.Once
	defaultM    *Machine
)

// Default returns the shared Machine for this process.
func Default() *Machine {
	defaultOnce.Do(func() {
		defaultM = New()
	})

	return defaultM
}

// Command returns a command for the given program. A name containing a path
// separator is used as a path; a bare name is resolved with Which.
func (m *Machine) Command(name string) (*command.Command, error) {
	program := name

	if !strings.ContainsAny(name, `/\`) {
		found, err := m.Which(name)
		if err != nil {
			return nil, err
		}

		program = found.String()
	}

	cmd := command.New(program)
	cmd.Environ = m.Env.Environ

	return cmd, nil
}

// Path returns a path on this machine.
func (m *Machine) Path(elem ...string) fspath.Path {
	return fspath.New(elem...)
}

// TempDir creates a temporary directory, passes it to fn and removes it
// when fn returns.
func (m *Machine) TempDir(fn func(fspath.Path) error) error {
	dir, err := os.MkdirTemp("", "cuprum-")
	if err != nil {
		return err
	}

	defer os.RemoveAll(dir) //nolint:errcheck

	return fn(fspath.New(dir))
}
