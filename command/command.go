// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/njharman/cuprum/internal/ctxlog"
	"github.com/njharman/cuprum/watchdog"
	"golang.org/x/text/encoding"
)

// Sub-commands used as arguments are shell-quoted textually from this
// nesting level on, because they represent a string a sub-shell would
// re-parse. Below it tokens stay raw.
const quoteLevel = 2

var (
	// ErrStartProcess is returned when the child process could not be started.
	ErrStartProcess = errors.New("could not start process")
	// ErrWait is returned when waiting on the child process fails for a
	// reason other than a non-zero exit.
	ErrWait = errors.New("could not wait for process")
	// ErrPipe is returned when an operating system pipe could not be created.
	ErrPipe = errors.New("could not create pipe")
)

// Cmd is a value describing how to run one external program, a pipeline of
// two, or a redirection. Values are immutable; composition returns new
// values. The set of implementations is closed: Command, Bound, Pipeline,
// Redirect and StdinData.
type Cmd interface {
	// Formulate renders the command into an argument vector. At nesting
	// level 0 tokens are raw strings suitable for spawning; deeper levels
	// are only used when rendering a human-readable shell-like string.
	Formulate(level int, extra ...string) []string
	// String renders the level-0 formulation joined by spaces.
	String() string

	formulate(level int, args []any) []string
	spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error)
	outputEncoding() encoding.Encoding
}

// Command is an executable reference: a program path (or bare name resolved
// at spawn time) plus the text encoding used to decode captured output.
type Command struct {
	// Dir is the working directory used when no per-call override is given.
	// Empty means the calling process' working directory.
	Dir string
	// Environ supplies the child environment when no per-call override is
	// given. Nil means os.Environ.
	Environ func() []string

	path string
	enc  encoding.Encoding
}

// New returns a Command for the given program. The program may be a path or
// a bare name; bare names are resolved against PATH at spawn time.
func New(program string) *Command {
	return &Command{path: program}
}

// WithEncoding returns a copy of c that decodes captured output using enc.
func (c *Command) WithEncoding(enc encoding.Encoding) *Command {
	c2 := *c
	c2.enc = enc

	return &c2
}

// Path returns the program this command refers to.
func (c *Command) Path() string { return c.path }

func (c *Command) outputEncoding() encoding.Encoding { return c.enc }

// Formulate implements Cmd.
func (c *Command) Formulate(level int, extra ...string) []string {
	return c.formulate(level, anyArgs(extra))
}

func (c *Command) String() string { return render(c) }

func (c *Command) formulate(level int, args []any) []string {
	argv := []string{c.path}

	for _, a := range args {
		if a == nil {
			continue
		}

		if sub, ok := a.(Cmd); ok {
			tokens := sub.formulate(level+1, nil)
			if level >= quoteLevel {
				tokens = QuoteList(tokens)
			}

			argv = append(argv, tokens...)

			continue
		}

		s := argString(a)
		if s == "" {
			continue
		}

		if level >= quoteLevel {
			s = Quote(s)
		}

		argv = append(argv, s)
	}

	return argv
}

func (c *Command) spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error) {
	path := c.path
	if filepath.Base(path) == path {
		lp, err := exec.LookPath(path)
		if err != nil {
			return nil, &CommandNotFoundError{
				Program: path,
				Path:    filepath.SplitList(os.Getenv("PATH")),
			}
		}

		path = lp
	}

	argv := c.formulate(0, args)

	env := cfg.env
	if env == nil {
		if c.Environ != nil {
			env = c.Environ()
		} else {
			env = os.Environ()
		}
	}

	if len(cfg.extraEnv) > 0 {
		env = append(slices.Clone(env), cfg.extraEnv...)
	}

	cwd := cfg.cwd
	if cwd == "" {
		cwd = c.Dir
	}

	ec := &exec.Cmd{
		Path: path,
		Args: argv,
		Dir:  cwd,
		Env:  env,
	}

	p := &Process{
		Argv: argv,
		enc:  c.enc,
		done: make(chan struct{}),
	}

	switch {
	case cfg.inherit:
		ec.Stdin = os.Stdin
		ec.Stdout = os.Stdout
		ec.Stderr = os.Stderr
	default:
		if cfg.stdinSet {
			ec.Stdin = cfg.stdin
		}

		if cfg.stdoutSet {
			ec.Stdout = cfg.stdout
		} else {
			p.stdout = &bytes.Buffer{}
			ec.Stdout = p.stdout
		}

		if cfg.stderrSet {
			ec.Stderr = cfg.stderr
		} else {
			p.stderr = &bytes.Buffer{}
			ec.Stderr = p.stderr
		}

		// 2>&1 and 1>&2 merges, applied once both sides are resolved.
		if cfg.mergeStderr {
			p.stderr = nil
			ec.Stderr = ec.Stdout
		}

		if cfg.mergeStdout {
			p.stdout = nil
			ec.Stdout = ec.Stderr
		}
	}

	ctxlog.Debug(ctx, "spawning process", "argv", argv, "cwd", cwd)

	if err := ec.Start(); err != nil {
		return nil, errors.Join(ErrStartProcess, err)
	}

	p.cmd = ec
	p.StartTime = time.Now()

	ctxlog.Debug(ctx, "process started", "pid", ec.Process.Pid)

	return p, nil
}

// Bound is an executable plus an ordered, append-only argument sequence.
// Binding more arguments to a Bound appends; it never nests.
type Bound struct {
	cmd  Cmd
	args []any
}

// With binds arguments to the command, returning a new Bound. Arguments may
// be strings, fmt.Stringer values (such as fspath.Path) or nested Cmds.
func (c *Command) With(args ...any) *Bound {
	return &Bound{cmd: c, args: slices.Clip(args)}
}

// With appends arguments, returning a new Bound. b.With(a).With(c) is
// equivalent to b.With(a, c).
func (b *Bound) With(args ...any) *Bound {
	combined := make([]any, 0, len(b.args)+len(args))
	combined = append(combined, b.args...)
	combined = append(combined, args...)

	return &Bound{cmd: b.cmd, args: combined}
}

// Args returns a copy of the bound argument tokens, rendered as strings.
func (b *Bound) Args() []string {
	out := make([]string, 0, len(b.args))
	for _, a := range b.args {
		out = append(out, argString(a))
	}

	return out
}

func (b *Bound) outputEncoding() encoding.Encoding { return b.cmd.outputEncoding() }

// Formulate implements Cmd.
func (b *Bound) Formulate(level int, extra ...string) []string {
	return b.formulate(level, anyArgs(extra))
}

func (b *Bound) String() string { return render(b) }

func (b *Bound) formulate(level int, args []any) []string {
	return b.cmd.formulate(level+1, append(slices.Clip(b.args), args...))
}

func (b *Bound) spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error) {
	return b.cmd.spawn(ctx, cfg, append(slices.Clip(b.args), args...))
}

func render(c Cmd) string {
	return strings.Join(c.Formulate(0), " ")
}

func anyArgs(extra []string) []any {
	if len(extra) == 0 {
		return nil
	}

	args := make([]any, len(extra))
	for i, s := range extra {
		args[i] = s
	}

	return args
}

func argString(a any) string {
	switch v := a.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// spawnConfig is the resolved set of per-call options. Redirections refuse
// to attach to a stream that is already spoken for.
type spawnConfig struct {
	cwd      string
	env      []string
	extraEnv []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	stdinSet  bool
	stdoutSet bool
	stderrSet bool

	mergeStderr bool
	mergeStdout bool

	inherit bool

	expect   ExitSpec
	timeout  time.Duration
	wd       *watchdog.Watchdog
	enqueued bool
}

func (cfg *spawnConfig) clone() *spawnConfig {
	c2 := *cfg

	return &c2
}

// Option adjusts how a command is spawned or validated.
type Option func(*spawnConfig) error

func buildConfig(opts []Option) (*spawnConfig, error) {
	cfg := &spawnConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// WithCwd runs the child in dir.
func WithCwd(dir string) Option {
	return func(cfg *spawnConfig) error {
		cfg.cwd = dir
		return nil
	}
}

// WithEnviron replaces the child environment wholesale.
func WithEnviron(env []string) Option {
	return func(cfg *spawnConfig) error {
		cfg.env = env
		return nil
	}
}

// WithEnv overlays the given variables on the child environment.
func WithEnv(vars map[string]string) Option {
	return func(cfg *spawnConfig) error {
		for k, v := range vars {
			cfg.extraEnv = append(cfg.extraEnv, k+"="+v)
		}

		return nil
	}
}

// WithStdin feeds the child's standard input from r.
func WithStdin(r io.Reader) Option {
	return func(cfg *spawnConfig) error {
		if cfg.stdinSet {
			return &RedirectionError{Stream: "stdin"}
		}

		cfg.stdin = r
		cfg.stdinSet = true

		return nil
	}
}

// WithStdout sends the child's standard output to w.
func WithStdout(w io.Writer) Option {
	return func(cfg *spawnConfig) error {
		if cfg.stdoutSet {
			return &RedirectionError{Stream: "stdout"}
		}

		cfg.stdout = w
		cfg.stdoutSet = true

		return nil
	}
}

// WithStderr sends the child's standard error to w.
func WithStderr(w io.Writer) Option {
	return func(cfg *spawnConfig) error {
		if cfg.stderrSet {
			return &RedirectionError{Stream: "stderr"}
		}

		cfg.stderr = w
		cfg.stderrSet = true

		return nil
	}
}

// WithTimeout kills the child if it runs longer than d, reporting
// *ProcessTimedOutError.
func WithTimeout(d time.Duration) Option {
	return func(cfg *spawnConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithExpect validates the exit code against spec instead of the default
// "must be zero".
func WithExpect(spec ExitSpec) Option {
	return func(cfg *spawnConfig) error {
		cfg.expect = spec
		return nil
	}
}

// WithWatchdog enforces timeouts with wd instead of watchdog.Default.
func WithWatchdog(wd *watchdog.Watchdog) Option {
	return func(cfg *spawnConfig) error {
		cfg.wd = wd
		return nil
	}
}
