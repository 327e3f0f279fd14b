// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package script implements the CLI command that runs a YAML script file.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/njharman/cuprum/command"
	iscript "github.com/njharman/cuprum/internal/script"
	"github.com/njharman/cuprum/local"
	"github.com/urfave/cli/v3"
)

const fileArg = "file"

// ScriptCmd runs the steps defined in a YAML file.
var ScriptCmd = &cli.Command{
	Name:        "script",
	Usage:       "cuprum script myscript.yaml",
	Description: "Run a sequence of commands defined in a YAML file.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "YAMLFILE",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fileName := cmd.StringArg(fileArg)
	if fileName == "" {
		return cli.Exit("please provide a YAML script to run", 1)
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not read %s: %s", fileName, err), 1)
	}

	def, err := iscript.Load(data)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not load %s: %s", fileName, err), 1)
	}

	results, err := def.Execute(ctx, local.Default())
	for _, sr := range results {
		if sr.Err != nil {
			fmt.Fprintf(cmd.ErrWriter, "step %s failed: %s\n", sr.Name, sr.Err)
			continue
		}

		fmt.Fprintf(cmd.Writer, "step %s: exit %d\n", sr.Name, sr.Result.ExitCode)

		if sr.Result.Stdout != "" {
			fmt.Fprint(cmd.Writer, sr.Result.Stdout)
		}
	}

	if err != nil {
		var execErr *command.ProcessExecutionError
		if errors.As(err, &execErr) && execErr.ExitCode > 0 {
			return cli.Exit("", execErr.ExitCode)
		}

		return cli.Exit(err.Error(), 1)
	}

	return nil
}
