// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/njharman/cuprum/internal/ctxlog"
	"github.com/njharman/cuprum/watchdog"
)

// Result is the outcome of a completed, validated process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitSpec describes which exit codes count as success. The zero value
// expects exactly 0.
type ExitSpec struct {
	any   bool
	codes []int
}

// Expect returns an ExitSpec accepting exactly the given codes.
func Expect(codes ...int) ExitSpec {
	return ExitSpec{codes: codes}
}

// AnyExit disables exit-code validation.
var AnyExit = ExitSpec{any: true}

// Matches reports whether code satisfies the spec.
func (s ExitSpec) Matches(code int) bool {
	if s.any {
		return true
	}

	if len(s.codes) == 0 {
		return code == 0
	}

	return slices.Contains(s.codes, code)
}

// Run spawns c, waits for it and validates its exit code. On an exit-code
// mismatch the error is a *ProcessExecutionError; if the timeout elapsed
// first it is a *ProcessTimedOutError.
func Run(ctx context.Context, c Cmd, opts ...Option) (*Result, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	p, err := c.spawn(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	return waitProc(ctx, p, cfg)
}

// Output runs c and returns its stdout, a convenience for the common case.
func Output(ctx context.Context, c Cmd, opts ...Option) (string, error) {
	res, err := Run(ctx, c, opts...)
	if err != nil {
		return "", err
	}

	return res.Stdout, nil
}

// RunFG runs c in the foreground, wiring the caller's own standard streams
// to the child. Useful for interactive programs that need a TTY. Nothing is
// captured.
func RunFG(ctx context.Context, c Cmd, opts ...Option) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	cfg.inherit = true

	p, err := c.spawn(ctx, cfg, nil)
	if err != nil {
		return err
	}

	_, err = waitProc(ctx, p, cfg)

	return err
}

// waitProc blocks until p terminates, enforcing the configured timeout via
// the watchdog, then validates the outcome. A timeout kill is reported in
// preference to any exit-code mismatch.
func waitProc(ctx context.Context, p *Process, cfg *spawnConfig) (*Result, error) {
	if cfg.timeout > 0 && !cfg.enqueued {
		wd := cfg.wd
		if wd == nil {
			wd = watchdog.Default()
		}

		wd.Enqueue(p, time.Now().Add(cfg.timeout))
		cfg.enqueued = true
	}

	err := p.wait()
	stdout, stderr := p.output()

	ctxlog.Debug(ctx, "process finished",
		"argv", p.Argv, "elapsed", time.Since(p.StartTime), "error", err)

	if p.TimedOut() {
		return nil, &ProcessTimedOutError{Argv: p.Argv, Timeout: cfg.timeout}
	}

	code, ok := p.exitCode(err)
	if !ok {
		return nil, errors.Join(ErrWait, err)
	}

	if !cfg.expect.Matches(code) {
		return nil, &ProcessExecutionError{
			Argv:     p.Argv,
			ExitCode: code,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}

	return &Result{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
}
