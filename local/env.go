// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/njharman/cuprum/fspath"
)

// Env is a machine environment: a mutable variable map read at spawn time
// by commands created on the owning Machine. Variable names fold case on
// Windows.
type Env struct {
	mu       sync.RWMutex
	vars     map[string]string
	caseFold bool
}

// NewEnv returns an Env seeded from the process environment.
func NewEnv() *Env {
	return newEnvFrom(os.Environ())
}

func newEnvFrom(environ []string) *Env {
	e := &Env{
		vars:     make(map[string]string, len(environ)),
		caseFold: runtime.GOOS == "windows",
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		e.vars[e.key(k)] = v
	}

	return e
}

func (e *Env) key(name string) string {
	if e.caseFold {
		return strings.ToUpper(name)
	}

	return name
}

// Get returns the value of name and whether it is set.
func (e *Env) Get(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.vars[e.key(name)]

	return v, ok
}

// GetDefault returns the value of name, or def when unset.
func (e *Env) GetDefault(name, def string) string {
	if v, ok := e.Get(name); ok {
		return v
	}

	return def
}

// Has reports whether name is set.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set sets name to value.
func (e *Env) Set(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.vars[e.key(name)] = value
}

// Delete removes name.
func (e *Env) Delete(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.vars, e.key(name))
}

// Update sets every variable in vars.
func (e *Env) Update(vars map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for k, v := range vars {
		e.vars[e.key(k)] = v
	}
}

// Map returns a copy of the environment as a plain map.
func (e *Env) Map() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}

	return out
}

// Environ renders the environment in the "key=value" form expected by
// process spawning, sorted for determinism.
func (e *Env) Environ() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}

	sort.Strings(out)

	return out
}

// Scoped applies vars, runs fn, and restores the previous environment on
// every exit path, including panics.
func (e *Env) Scoped(vars map[string]string, fn func() error) error {
	e.mu.Lock()
	snapshot := make(map[string]string, len(e.vars))

	for k, v := range e.vars {
		snapshot[k] = v
	}
	e.mu.Unlock()

	e.Update(vars)

	defer func() {
		e.mu.Lock()
		e.vars = snapshot
		e.mu.Unlock()
	}()

	return fn()
}

// User returns the user name from the environment, or "".
func (e *Env) User() string {
	if v, ok := e.Get("USER"); ok {
		return v
	}

	if v, ok := e.Get("USERNAME"); ok {
		return v
	}

	return ""
}

// Home returns the home directory from the environment following the usual
// platform conventions, or the empty path.
func (e *Env) Home() fspath.Path {
	if v, ok := e.Get("HOME"); ok {
		return fspath.New(v)
	}

	if v, ok := e.Get("USERPROFILE"); ok {
		return fspath.New(v)
	}

	if v, ok := e.Get("HOMEPATH"); ok {
		return fspath.New(e.GetDefault("HOMEDRIVE", ""), v)
	}

	return fspath.Path{}
}

// SetHome sets the home directory, writing whichever variable the platform
// convention already uses.
func (e *Env) SetHome(p fspath.Path) {
	for _, name := range []string{"HOME", "USERPROFILE", "HOMEPATH"} {
		if e.Has(name) {
			e.Set(name, p.String())
			return
		}
	}

	e.Set("HOME", p.String())
}

// Expand expands $VAR, ${VAR} and a leading ~ in text against this
// environment, following standard shell conventions.
func (e *Env) Expand(text string) string {
	if text == "~" {
		return e.Home().String()
	}

	if strings.HasPrefix(text, "~/") || strings.HasPrefix(text, "~"+fspath.Sep) {
		text = e.Home().String() + text[1:]
	}

	return os.Expand(text, func(name string) string {
		v, _ := e.Get(name)
		return v
	})
}
