// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the CLI command that runs a one-line pipeline.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/internal/shellparse"
	"github.com/njharman/cuprum/local"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	timeoutFlag = "timeout"
	retcodeFlag = "retcode"
	anyFlag     = "any-retcode"
	cwdFlag     = "cwd"
	envFlag     = "env"
	jsonFlag    = "json"
)

// RunCmd runs a one-line command pipeline given as arguments.
var RunCmd = &cli.Command{
	Name:        "run",
	Usage:       "cuprum run [options] 'COMMANDLINE'",
	Description: "Run a command line with optional pipes and redirections.",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  timeoutFlag,
			Usage: "Kill the command if it runs longer than this",
		},
		&cli.IntSliceFlag{
			Name:  retcodeFlag,
			Usage: "Accepted exit codes (repeatable); default 0",
		},
		&cli.BoolFlag{
			Name:  anyFlag,
			Usage: "Accept any exit code",
		},
		&cli.StringFlag{
			Name:  cwdFlag,
			Usage: "Working directory for the command",
		},
		&cli.StringSliceFlag{
			Name:  envFlag,
			Usage: "Extra environment variables as KEY=VALUE (repeatable)",
		},
		&cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "Print the result as JSON",
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	line := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(line) == "" {
		return cli.Exit("please provide a command line to run", 1)
	}

	machine := local.Default()

	c, err := shellparse.Parse(machine, line)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not parse %q: %s", line, err), 1)
	}

	opts, err := buildOpts(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	res, err := command.Run(ctx, c, opts...)
	if err != nil {
		return report(cmd, err)
	}

	if cmd.Bool(jsonFlag) {
		return printJSON(cmd, map[string]any{
			"argv":      c.Formulate(0),
			"exit_code": res.ExitCode,
			"stdout":    res.Stdout,
			"stderr":    res.Stderr,
		})
	}

	fmt.Fprint(cmd.Writer, res.Stdout)
	fmt.Fprint(cmd.ErrWriter, res.Stderr)

	return nil
}

func buildOpts(cmd *cli.Command) ([]command.Option, error) {
	opts := []command.Option{}

	if d := cmd.Duration(timeoutFlag); d > 0 {
		opts = append(opts, command.WithTimeout(d))
	}

	switch {
	case cmd.Bool(anyFlag):
		opts = append(opts, command.WithExpect(command.AnyExit))
	case len(cmd.IntSlice(retcodeFlag)) > 0:
		opts = append(opts, command.WithExpect(command.Expect(cmd.IntSlice(retcodeFlag)...)))
	}

	if dir := cmd.String(cwdFlag); dir != "" {
		opts = append(opts, command.WithCwd(dir))
	}

	if kvs := cmd.StringSlice(envFlag); len(kvs) > 0 {
		vars := make(map[string]string, len(kvs))

		for _, kv := range kvs {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("bad --env value %q, want KEY=VALUE", kv)
			}

			vars[k] = v
		}

		opts = append(opts, command.WithEnv(vars))
	}

	return opts, nil
}

// report renders a failed run, preserving the child's exit code where one
// exists.
func report(cmd *cli.Command, err error) error {
	var execErr *command.ProcessExecutionError
	if errors.As(err, &execErr) {
		fmt.Fprint(cmd.Writer, execErr.Stdout)
		fmt.Fprint(cmd.ErrWriter, execErr.Stderr)

		code := execErr.ExitCode
		if code <= 0 {
			code = 1
		}

		return cli.Exit("", code)
	}

	return cli.Exit(err.Error(), 1)
}

func printJSON(cmd *cli.Command, obj map[string]any) error {
	f := colorjson.NewFormatter()
	f.Indent = 2

	if fd, ok := cmd.Writer.(*os.File); !ok || !term.IsTerminal(int(fd.Fd())) {
		f.DisabledColor = true
	}

	b, err := f.Marshal(obj)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Writer, string(b))

	return nil
}
