// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"strings"

	"github.com/njharman/cuprum/fspath"
)

const pathVar = "PATH"

// SystemPath is a list view over the environment's PATH variable. Mutations
// write straight back to the owning Env so later lookups and spawned
// children observe them.
type SystemPath struct {
	env *Env
}

// Path returns the PATH list view of this environment.
func (e *Env) Path() *SystemPath {
	return &SystemPath{env: e}
}

// List returns the search directories in order.
func (s *SystemPath) List() []fspath.Path {
	raw := s.env.GetDefault(pathVar, "")

	var out []fspath.Path

	for _, dir := range strings.Split(raw, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}

		out = append(out, fspath.New(dir))
	}

	return out
}

// Strings returns the search directories as plain strings.
func (s *SystemPath) Strings() []string {
	dirs := s.List()
	out := make([]string, len(dirs))

	for i, d := range dirs {
		out[i] = d.String()
	}

	return out
}

// Contains reports whether dir is on the search path.
func (s *SystemPath) Contains(dir fspath.Path) bool {
	for _, d := range s.List() {
		if d.Equal(dir) {
			return true
		}
	}

	return false
}

// Append adds dir to the end of the search path.
func (s *SystemPath) Append(dir fspath.Path) {
	s.store(append(s.List(), dir))
}

// Prepend adds dir to the front of the search path.
func (s *SystemPath) Prepend(dir fspath.Path) {
	s.store(append([]fspath.Path{dir}, s.List()...))
}

// Remove drops every occurrence of dir from the search path.
func (s *SystemPath) Remove(dir fspath.Path) {
	var kept []fspath.Path

	for _, d := range s.List() {
		if !d.Equal(dir) {
			kept = append(kept, d)
		}
	}

	s.store(kept)
}

func (s *SystemPath) store(dirs []fspath.Path) {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = d.String()
	}

	s.env.Set(pathVar, strings.Join(parts, string(os.PathListSeparator)))
}
