// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shellparse turns one-line shell-like strings such as
// "grep -v foo | wc -l > out.txt" into command values. It understands
// pipes, file redirections (<, >, 2>) and the 2>&1 merge; it is not a
// shell: no globbing, no variable expansion, no control flow.
package shellparse

import (
	"errors"
	"fmt"

	"github.com/google/shlex"
	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/local"
)

var (
	// ErrEmpty is returned for a line with no command in it.
	ErrEmpty = errors.New("empty command line")
	// ErrBadRedirect is returned when a redirection operator has no target.
	ErrBadRedirect = errors.New("redirection operator needs a target")
	// ErrEmptyStage is returned when a pipeline stage has no tokens.
	ErrEmptyStage = errors.New("empty pipeline stage")
)

type redirects struct {
	stdin       string
	stdout      string
	stderr      string
	mergeStderr bool
}

// Parse lexes line and builds a runnable command against m. Programs are
// resolved through the machine's search path.
func Parse(m *local.Machine, line string) (command.Cmd, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("could not lex command line: %w", err)
	}

	if len(tokens) == 0 {
		return nil, ErrEmpty
	}

	stages, redir, err := splitStages(tokens)
	if err != nil {
		return nil, err
	}

	var cmd command.Cmd

	for _, stage := range stages {
		stageCmd, err := buildStage(m, stage)
		if err != nil {
			return nil, err
		}

		if cmd == nil {
			cmd = stageCmd
			continue
		}

		cmd = command.Pipe(cmd, stageCmd)
	}

	// Redirections attach to the composed command: stdin feeds the first
	// stage, stdout/stderr come from the last.
	if redir.stdin != "" {
		cmd = command.RedirectStdin(cmd, redir.stdin)
	}

	if redir.stdout != "" {
		cmd = command.RedirectStdout(cmd, redir.stdout)
	}

	if redir.stderr != "" {
		cmd = command.RedirectStderr(cmd, redir.stderr)
	}

	if redir.mergeStderr {
		cmd = command.MergeStderr(cmd)
	}

	return cmd, nil
}

func splitStages(tokens []string) ([][]string, *redirects, error) {
	stages := [][]string{}
	redir := &redirects{}
	cur := []string{}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok {
		case "|":
			stages = append(stages, cur)
			cur = []string{}
		case "<", ">", "2>":
			if i+1 >= len(tokens) {
				return nil, nil, fmt.Errorf("%w: %s", ErrBadRedirect, tok)
			}

			i++
			target := tokens[i]

			switch tok {
			case "<":
				redir.stdin = target
			case ">":
				redir.stdout = target
			case "2>":
				redir.stderr = target
			}
		case "2>&1":
			redir.mergeStderr = true
		default:
			cur = append(cur, tok)
		}
	}

	stages = append(stages, cur)

	return stages, redir, nil
}

func buildStage(m *local.Machine, tokens []string) (command.Cmd, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyStage
	}

	cmd, err := m.Command(tokens[0])
	if err != nil {
		return nil, err
	}

	if len(tokens) == 1 {
		return cmd, nil
	}

	args := make([]any, len(tokens)-1)
	for i, t := range tokens[1:] {
		args[i] = t
	}

	return cmd.With(args...), nil
}
