// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"os"
	"slices"

	"golang.org/x/text/encoding"
)

// Pipeline wires the source's standard output to the destination's standard
// input when spawned.
type Pipeline struct {
	src Cmd
	dst Cmd
}

// Pipe composes src and dst into a Pipeline.
func Pipe(src, dst Cmd) *Pipeline {
	return &Pipeline{src: src, dst: dst}
}

// Src returns the upstream command.
func (pl *Pipeline) Src() Cmd { return pl.src }

// Dst returns the downstream command.
func (pl *Pipeline) Dst() Cmd { return pl.dst }

func (pl *Pipeline) outputEncoding() encoding.Encoding {
	if enc := pl.src.outputEncoding(); enc != nil {
		return enc
	}

	return pl.dst.outputEncoding()
}

// Formulate implements Cmd.
func (pl *Pipeline) Formulate(level int, extra ...string) []string {
	return pl.formulate(level, anyArgs(extra))
}

func (pl *Pipeline) String() string { return render(pl) }

func (pl *Pipeline) formulate(level int, args []any) []string {
	out := pl.src.formulate(level+1, nil)
	out = append(out, "|")

	return append(out, pl.dst.formulate(level+1, args)...)
}

// spawn starts the source with its output on a fresh OS pipe, hands the read
// end to the destination as stdin, then closes the parent's copies of both
// ends. Closing the write end is what lets the source receive an end-of-pipe
// signal if the destination exits first.
func (pl *Pipeline) spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrPipe, err)
	}

	// The caller's stdin feeds the source; stdout/stderr options apply to
	// the destination. The source's stderr is captured on its own handle.
	srcCfg := cfg.clone()
	srcCfg.stdout = w
	srcCfg.stdoutSet = true
	srcCfg.stderr = nil
	srcCfg.stderrSet = false
	srcCfg.mergeStderr = false
	srcCfg.mergeStdout = false

	srcProc, err := pl.src.spawn(ctx, srcCfg, nil)
	if err != nil {
		_ = r.Close()
		_ = w.Close()

		return nil, err
	}

	_ = w.Close()

	dstCfg := cfg.clone()
	dstCfg.stdin = r
	dstCfg.stdinSet = true

	dstProc, err := pl.dst.spawn(ctx, dstCfg, args)

	_ = r.Close()

	if err != nil {
		_ = srcProc.Kill()
		_ = srcProc.wait()

		return nil, err
	}

	dstProc.src = srcProc
	dstProc.Argv = slices.Concat(srcProc.Argv, []string{"|"}, dstProc.Argv)

	return dstProc, nil
}
