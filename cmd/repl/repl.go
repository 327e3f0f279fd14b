// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package repl implements an interactive read-run loop over the command
// parser, with line editing and persistent history.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/internal/shellparse"
	"github.com/njharman/cuprum/local"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
)

const (
	prompt      = "cuprum> "
	historyFile = ".cuprum_history"
)

// ReplCmd starts the interactive loop.
var ReplCmd = &cli.Command{
	Name:        "repl",
	Usage:       "cuprum repl",
	Description: "Interactively run command lines, with pipes and redirections.",
	Action:      actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	machine := local.Default()

	l := liner.NewLiner()
	defer l.Close() //nolint:errcheck

	l.SetCtrlCAborts(true)

	histPath := historyPath(machine)
	loadHistory(l, histPath)

	defer saveHistory(l, histPath)

	for {
		line, err := l.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(cmd.Writer)
			return nil
		case err != nil:
			return cli.Exit(err.Error(), 1)
		}

		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			return nil
		}

		l.AppendHistory(line)
		runLine(ctx, cmd, machine, line)
	}
}

func runLine(ctx context.Context, cmd *cli.Command, machine *local.Machine, line string) {
	c, err := shellparse.Parse(machine, line)
	if err != nil {
		fmt.Fprintf(cmd.ErrWriter, "parse error: %s\n", err)
		return
	}

	res, err := command.Run(ctx, c, command.WithExpect(command.AnyExit))
	if err != nil {
		fmt.Fprintf(cmd.ErrWriter, "error: %s\n", err)
		return
	}

	fmt.Fprint(cmd.Writer, res.Stdout)
	fmt.Fprint(cmd.ErrWriter, res.Stderr)

	if res.ExitCode != 0 {
		fmt.Fprintf(cmd.ErrWriter, "(exit %d)\n", res.ExitCode)
	}
}

func historyPath(machine *local.Machine) string {
	home := machine.Env.Home()
	if home.IsEmpty() {
		return ""
	}

	return filepath.Join(home.String(), historyFile)
}

func loadHistory(l *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck

	_, _ = l.ReadHistory(f)
}

func saveHistory(l *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck

	_, _ = l.WriteHistory(f)
}
