// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package which implements the CLI command that resolves a program name
// against the search path.
package which

import (
	"context"
	"fmt"

	"github.com/njharman/cuprum/local"
	"github.com/urfave/cli/v3"
)

const programArg = "program"

// WhichCmd resolves a program name against PATH.
var WhichCmd = &cli.Command{
	Name:        "which",
	Usage:       "cuprum which PROGRAM",
	Description: "Look up a program on the search path and print its full path.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      programArg,
			UsageText: "PROGRAM",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(programArg)
	if name == "" {
		return cli.Exit("please provide a program name", 1)
	}

	p, err := local.Default().Which(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Writer, p.String())

	return nil
}
