// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"fmt"
	"strings"
	"time"
)

// CommandNotFoundError is returned when a program cannot be resolved against
// the search path.
type CommandNotFoundError struct {
	Program string
	Path    []string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s (searched %s)", e.Program, strings.Join(e.Path, ", "))
}

// ProcessExecutionError is returned when a process exits with a code outside
// the accepted set. It carries enough to reconstruct a diagnostic without
// re-running the command.
type ProcessExecutionError struct {
	Argv     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessExecutionError) Error() string {
	lines := []string{
		fmt.Sprintf("command line: %s", strings.Join(e.Argv, " ")),
		fmt.Sprintf("exit code: %d", e.ExitCode),
	}

	if e.Stdout != "" {
		lines = append(lines, "stdout:", e.Stdout)
	}

	if e.Stderr != "" {
		lines = append(lines, "stderr:", e.Stderr)
	}

	return strings.Join(lines, "\n")
}

// ProcessTimedOutError is returned when a process is killed by the watchdog
// before it terminates on its own. It takes precedence over exit-code
// validation.
type ProcessTimedOutError struct {
	Argv    []string
	Timeout time.Duration
}

func (e *ProcessTimedOutError) Error() string {
	return fmt.Sprintf("process did not terminate within %s: %s", e.Timeout, strings.Join(e.Argv, " "))
}

// RedirectionError is returned when a standard stream is redirected twice.
// It is reported before any process is spawned.
type RedirectionError struct {
	Stream string
}

func (e *RedirectionError) Error() string {
	return fmt.Sprintf("%s is already redirected", e.Stream)
}
