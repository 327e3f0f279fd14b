// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/encoding"
)

// Process is a handle to a spawned child. It records the argument vector it
// was spawned with, its start time and, if the watchdog killed it, a flag
// marking it as timed out. A Process moves from spawned through running (or
// timed-out) to completed; the owning wait call performs that last
// transition and decides what failure, if any, is reported.
type Process struct {
	// Argv is the argument vector the child was spawned with, kept for
	// error messages.
	Argv []string
	// StartTime is when the child was spawned.
	StartTime time.Time

	cmd      *exec.Cmd
	enc      encoding.Encoding
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	timedOut atomic.Bool
	done     chan struct{}
	waitOnce sync.Once
	waitErr  error

	// src is the upstream process of a pipeline, reaped after this one.
	src *Process
}

// Pid returns the operating system process id of the child.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Alive reports whether the child has not yet been observed to exit.
func (p *Process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Kill force-terminates the child, and the upstream of a pipeline with it,
// so one handle tears down the whole pipeline. Returns os.ErrProcessDone if
// the child is already gone.
func (p *Process) Kill() error {
	if p.src != nil {
		_ = p.src.Kill()
	}

	if p.cmd.Process == nil {
		return os.ErrProcessDone
	}

	return p.cmd.Process.Kill()
}

// MarkTimedOut labels the process as killed by deadline. Called by the
// watchdog only.
func (p *Process) MarkTimedOut() {
	p.timedOut.Store(true)
}

// TimedOut reports whether the watchdog killed this process.
func (p *Process) TimedOut() bool {
	return p.timedOut.Load()
}

// wait reaps the child exactly once; concurrent and repeated calls return
// the same outcome. A pipeline's upstream process is reaped afterwards so
// it never lingers as a zombie.
func (p *Process) wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
		close(p.done)

		if p.src != nil {
			_ = p.src.wait()
		}
	})

	<-p.done

	return p.waitErr
}

// output returns the captured standard streams, decoded with the command's
// configured encoding. Streams redirected elsewhere come back empty.
func (p *Process) output() (stdout, stderr string) {
	if p.stdout != nil {
		stdout = decode(p.enc, p.stdout.Bytes())
	}

	if p.stderr != nil {
		stderr = decode(p.enc, p.stderr.Bytes())
	}

	return stdout, stderr
}

// exitCode extracts the child's exit code from the wait outcome. The bool
// is false when err is not an exit status at all.
func (p *Process) exitCode(err error) (int, bool) {
	if err == nil {
		return p.cmd.ProcessState.ExitCode(), true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}

	return 0, false
}

// decode converts captured bytes to a string, best effort: decoding errors
// fall back to the raw bytes.
func decode(enc encoding.Encoding, b []byte) string {
	if enc == nil {
		return string(b)
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}

	return string(out)
}
