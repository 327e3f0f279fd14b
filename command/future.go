// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"sync"
	"time"

	"github.com/njharman/cuprum/watchdog"
)

// Future is a handle to a process running in the background. The outcome is
// produced by an explicit Wait; there is no lazy blocking hidden behind
// accessors. Wait runs the validate step exactly once and caches the result.
type Future struct {
	p   *Process
	cfg *spawnConfig

	once sync.Once
	res  *Result
	err  error
}

// Start spawns c in the background and returns a Future for its outcome.
// A configured timeout starts counting immediately.
func Start(ctx context.Context, c Cmd, opts ...Option) (*Future, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	p, err := c.spawn(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	if cfg.timeout > 0 {
		wd := cfg.wd
		if wd == nil {
			wd = watchdog.Default()
		}

		wd.Enqueue(p, time.Now().Add(cfg.timeout))
		cfg.enqueued = true
	}

	// Reap on exit so Poll sees termination promptly and the child never
	// lingers as a zombie.
	go func() { _ = p.wait() }()

	return &Future{p: p, cfg: cfg}, nil
}

// Process returns the underlying process handle.
func (f *Future) Process() *Process { return f.p }

// Wait blocks until the process terminates, then validates the outcome the
// same way Run does. Repeated calls return the cached result.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	f.once.Do(func() {
		f.res, f.err = waitProc(ctx, f.p, f.cfg)
	})

	return f.res, f.err
}

// Poll reports whether the process has terminated without blocking. Once it
// has, Poll performs the wait-and-validate step and returns its outcome.
func (f *Future) Poll(ctx context.Context) (*Result, bool, error) {
	if f.p.Alive() {
		return nil, false, nil
	}

	res, err := f.Wait(ctx)

	return res, true, err
}
