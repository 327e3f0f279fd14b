// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package script runs YAML-described command sequences: a list of steps,
// each a one-line command with optional working directory, environment
// overlay, timeout, accepted exit codes and stream redirections.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/internal/ctxlog"
	"github.com/njharman/cuprum/internal/shellparse"
	"github.com/njharman/cuprum/local"
)

// ErrStepFailed is returned by Execute when a step fails; the step's own
// error is joined to it.
var ErrStepFailed = errors.New("script step failed")

// Definition is a parsed script file.
type Definition struct {
	Name  string            `yaml:"name"`
	Env   map[string]string `yaml:"env"`
	Steps []Step            `yaml:"steps"`
}

// Step is one command of a script.
type Step struct {
	Name    string            `yaml:"name"`
	Run     string            `yaml:"run"`
	Cwd     string            `yaml:"cwd"`
	Env     map[string]string `yaml:"env"`
	Timeout string            `yaml:"timeout"`
	Expect  []int             `yaml:"expect"`
	AnyExit bool              `yaml:"any_exit"`
	Stdin   string            `yaml:"stdin"`
	Stdout  string            `yaml:"stdout"`
}

// StepResult pairs a step with its outcome.
type StepResult struct {
	Name   string
	Result *command.Result
	Err    error
}

// Load parses and validates a YAML script definition. Validation problems
// are aggregated so a bad file reports everything wrong with it at once.
func Load(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("could not parse script: %w", err)
	}

	if err := def.validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

func (d *Definition) validate() error {
	var result *multierror.Error

	if len(d.Steps) == 0 {
		result = multierror.Append(result, errors.New("script has no steps"))
	}

	for i, step := range d.Steps {
		if step.Run == "" {
			result = multierror.Append(result,
				fmt.Errorf("step %d (%s): run is required", i+1, step.label(i)))
		}

		if step.Timeout != "" {
			if _, err := time.ParseDuration(step.Timeout); err != nil {
				result = multierror.Append(result,
					fmt.Errorf("step %d (%s): bad timeout: %w", i+1, step.label(i), err))
			}
		}

		if step.AnyExit && len(step.Expect) > 0 {
			result = multierror.Append(result,
				fmt.Errorf("step %d (%s): any_exit and expect are mutually exclusive", i+1, step.label(i)))
		}
	}

	return result.ErrorOrNil()
}

func (s Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}

	return fmt.Sprintf("step-%d", i+1)
}

// Execute runs the steps in order on m, stopping at the first failure. The
// returned slice holds one entry per attempted step.
func (d *Definition) Execute(ctx context.Context, m *local.Machine) ([]StepResult, error) {
	results := make([]StepResult, 0, len(d.Steps))

	for i, step := range d.Steps {
		label := step.label(i)
		ctxlog.Debug(ctx, "running script step", "script", d.Name, "step", label)

		res, err := d.runStep(ctx, m, step)
		results = append(results, StepResult{Name: label, Result: res, Err: err})

		if err != nil {
			return results, errors.Join(ErrStepFailed, fmt.Errorf("%s: %w", label, err))
		}
	}

	return results, nil
}

func (d *Definition) runStep(ctx context.Context, m *local.Machine, step Step) (*command.Result, error) {
	cmd, err := shellparse.Parse(m, step.Run)
	if err != nil {
		return nil, err
	}

	if step.Stdin != "" {
		cmd = command.WithStdinData(cmd, step.Stdin)
	}

	if step.Stdout != "" {
		cmd = command.RedirectStdout(cmd, step.Stdout)
	}

	opts := []command.Option{}

	env := map[string]string{}
	for k, v := range d.Env {
		env[k] = v
	}

	for k, v := range step.Env {
		env[k] = v
	}

	if len(env) > 0 {
		opts = append(opts, command.WithEnv(env))
	}

	if step.Cwd != "" {
		opts = append(opts, command.WithCwd(m.Env.Expand(step.Cwd)))
	}

	if step.Timeout != "" {
		timeout, err := time.ParseDuration(step.Timeout)
		if err != nil {
			return nil, err
		}

		opts = append(opts, command.WithTimeout(timeout))
	}

	switch {
	case step.AnyExit:
		opts = append(opts, command.WithExpect(command.AnyExit))
	case len(step.Expect) > 0:
		opts = append(opts, command.WithExpect(command.Expect(step.Expect...)))
	}

	return command.Run(ctx, cmd, opts...)
}
