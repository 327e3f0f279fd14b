// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/njharman/cuprum/cmd/repl"
	"github.com/njharman/cuprum/cmd/run"
	"github.com/njharman/cuprum/cmd/script"
	"github.com/njharman/cuprum/cmd/which"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		script.ScriptCmd,
		repl.ReplCmd,
		which.WhichCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "cuprum",
	Description: `Cuprum runs external programs from composable command values:
one-line pipelines with redirections, YAML-described command scripts,
and an interactive loop. Timeouts, accepted exit codes, environment
overlays and working directories are all per-invocation options.`,
	Usage:                 "cuprum run 'ls | grep go'",
	EnableShellCompletion: true,
}
