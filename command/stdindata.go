// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"os"

	"golang.org/x/text/encoding"
)

// Literal stdin data is buffered to a temporary file in chunks of this size
// rather than streamed.
const stdinChunkSize = 16000

// ErrStdinData is returned when the temporary file buffering literal stdin
// data could not be prepared.
var ErrStdinData = errors.New("could not buffer stdin data")

// StdinData feeds a literal string to the command's standard input. The data
// is buffered to a temporary file which the child inherits.
type StdinData struct {
	cmd  Cmd
	data string
}

// WithStdinData composes c with literal standard input.
func WithStdinData(c Cmd, data string) *StdinData {
	return &StdinData{cmd: c, data: data}
}

func (s *StdinData) outputEncoding() encoding.Encoding { return s.cmd.outputEncoding() }

// Formulate implements Cmd.
func (s *StdinData) Formulate(level int, extra ...string) []string {
	return s.formulate(level, anyArgs(extra))
}

func (s *StdinData) String() string { return render(s) }

func (s *StdinData) formulate(level int, args []any) []string {
	out := []string{"echo", Quote(s.data), "|"}

	return append(out, s.cmd.formulate(level+1, args)...)
}

func (s *StdinData) spawn(ctx context.Context, cfg *spawnConfig, args []any) (*Process, error) {
	if cfg.stdinSet {
		return nil, &RedirectionError{Stream: "stdin"}
	}

	data := []byte(s.data)
	if enc := s.outputEncoding(); enc != nil {
		if encoded, err := enc.NewEncoder().Bytes(data); err == nil {
			data = encoded
		}
	}

	f, err := os.CreateTemp("", "cuprum-stdin-")
	if err != nil {
		return nil, errors.Join(ErrStdinData, err)
	}

	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	for len(data) > 0 {
		chunk := data
		if len(chunk) > stdinChunkSize {
			chunk = chunk[:stdinChunkSize]
		}

		if _, err := f.Write(chunk); err != nil {
			return nil, errors.Join(ErrStdinData, err)
		}

		data = data[len(chunk):]
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, errors.Join(ErrStdinData, err)
	}

	cfg2 := cfg.clone()
	cfg2.stdin = f
	cfg2.stdinSet = true

	return s.cmd.spawn(ctx, cfg2, args)
}
