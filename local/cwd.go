// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"sync"

	"github.com/njharman/cuprum/fspath"
)

// Cwd manipulates the process working directory, which is what children
// spawned without an explicit directory inherit.
type Cwd struct {
	mu sync.Mutex
}

// Get returns the current working directory.
func (c *Cwd) Get() (fspath.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return fspath.Path{}, err
	}

	return fspath.New(wd), nil
}

// Chdir changes the working directory.
func (c *Cwd) Chdir(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return os.Chdir(dir)
}

// Pushd changes into dir, runs fn, and returns to the previous directory on
// every exit path, pushd/popd style.
func (c *Cwd) Pushd(dir string, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := os.Chdir(dir); err != nil {
		return err
	}

	defer os.Chdir(prev) //nolint:errcheck

	return fn()
}
