// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"os"

	"golang.org/x/text/encoding"
)

type stream int

const (
	streamStdin stream = iota
	streamStdout
	streamStderr
)

func (s stream) String() string {
	switch s {
	case streamStdin:
		return "stdin"
	case streamStdout:
		return "stdout"
	default:
		return "stderr"
	}
}

func (s stream) symbol() string {
	switch s {
	case streamStdin:
		return "<"
	case streamStdout:
		return ">"
	default:
		return "2>"
	}
}

// Redirect replaces one standard stream of a command with a file path, an
// open handle, or (for stdout/stderr) a merge into the sibling stream. Path
// targets are opened only for the duration of the spawn; the child keeps its
// inherited descriptor.
type Redirect struct {
	cmd    Cmd
	stream stream
	path   string
	file   *os.File
	merge  bool
}

// RedirectStdout sends the command's standard output to the file at path,
// truncating it.
func RedirectStdout(c Cmd, path string) *Redirect {
	return &Redirect{cmd: c, stream: streamStdout, path: path}
}

// RedirectStderr sends the command's standard error to the file at path,
// truncating it.
func RedirectStderr(c Cmd, path string) *Redirect {
	return &Redirect{cmd: c, stream: streamStderr, path: path}
}

// RedirectStdin feeds the command's standard input from the file at path.
func RedirectStdin(c Cmd, path string) *Redirect {
	return &Redirect{cmd: c, stream: streamStdin, path: path}
}

// RedirectStdoutHandle sends the command's standard output to an already
// open file.
func RedirectStdoutHandle(c Cmd, f *os.File) *Redirect {
	return &Redirect{cmd: c, stream: streamStdout, file: f}
}

// RedirectStderrHandle sends the command's standard error to an already
// open file.
func RedirectStderrHandle(c Cmd, f *os.File) *Redirect {
	return &Redirect{cmd: c, stream: streamStderr, file: f}
}

// RedirectStdinHandle feeds the command's standard input from an already
// open file.
func RedirectStdinHandle(c Cmd, f *os.File) *Redirect {
	return &Redirect{cmd: c, stream: streamStdin, file: f}
}

// MergeStderr merges the command's standard error into its standard output,
// like 2>&1.
func MergeStderr(c Cmd) *Redirect {
	return &Redirect{cmd: c, stream: streamStderr, merge: true}
}

// MergeStdout merges the command's standard output into its standard error,
// like >&2.
func MergeStdout(c Cmd) *Redirect {
	return &Redirect{cmd: c, stream: streamStdout, merge: true}
}

func (r *Redirect) outputEncoding() encoding.Encoding { return r.cmd.outputEncoding() }

// Formulate implements Cmd.
func (r *Redirect) Formulate(level int, extra ...string) []string {
	return r.formulate(level, anyArgs(extra))
}

func (r *Redirect) String() string { return render(r) }

func (r *Redirect) formulate(level int, args []any) []string {
	out := r.cmd.formulate(level+1, args)

	if r.merge {
		if r.stream == streamStderr {
			return append(out, "2>&1")
		}

		return append(out, ">&2")
	}

	name := r.path
	if r.file != nil {
		name = r.file.Name()
	}

	return append(out, r.stream.symbol(), Quote(name))
}

func (r *Redirect) spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error) {
	if r.taken(cfg) {
		return nil, &RedirectionError{Stream: r.stream.String()}
	}

	cfg2 := cfg.clone()

	var opened *os.File

	switch {
	case r.merge:
		if r.stream == streamStderr {
			cfg2.mergeStderr = true
		} else {
			cfg2.mergeStdout = true
		}
	case r.file != nil:
		r.attach(cfg2, r.file)
	default:
		f, err := r.open()
		if err != nil {
			return nil, err
		}

		opened = f
		r.attach(cfg2, f)
	}

	p, err := r.cmd.spawn(ctx, cfg2, args)

	// The child inherited the descriptor; drop the parent's copy.
	if opened != nil {
		_ = opened.Close()
	}

	return p, err
}

// taken reports whether the target stream is already spoken for.
func (r *Redirect) taken(cfg *spawnConfig) bool {
	switch r.stream {
	case streamStdin:
		return cfg.stdinSet
	case streamStdout:
		return cfg.stdoutSet || cfg.mergeStdout
	default:
		return cfg.stderrSet || cfg.mergeStderr
	}
}

func (r *Redirect) attach(cfg *spawnConfig, f *os.File) {
	switch r.stream {
	case streamStdin:
		cfg.stdin = f
		cfg.stdinSet = true
	case streamStdout:
		cfg.stdout = f
		cfg.stdoutSet = true
	default:
		cfg.stderr = f
		cfg.stderrSet = true
	}
}

// open opens the path target in the mode implied by the redirected stream:
// read for stdin, write/truncate for stdout and stderr.
func (r *Redirect) open() (*os.File, error) {
	if r.stream == streamStdin {
		return os.Open(r.path)
	}

	return os.Create(r.path)
}
