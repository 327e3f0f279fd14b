// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import "os"

// Builder methods on the two composition roots. Composite values (Pipeline,
// Redirect, StdinData) compose further through the package-level functions.

// Pipe feeds this command's standard output into dst.
func (c *Command) Pipe(dst Cmd) *Pipeline { return Pipe(c, dst) }

// Pipe feeds this command's standard output into dst.
func (b *Bound) Pipe(dst Cmd) *Pipeline { return Pipe(b, dst) }

// RedirectStdout sends this command's standard output to the file at path.
func (c *Command) RedirectStdout(path string) *Redirect { return RedirectStdout(c, path) }

// RedirectStdout sends this command's standard output to the file at path.
func (b *Bound) RedirectStdout(path string) *Redirect { return RedirectStdout(b, path) }

// RedirectStderr sends this command's standard error to the file at path.
func (c *Command) RedirectStderr(path string) *Redirect { return RedirectStderr(c, path) }

// RedirectStderr sends this command's standard error to the file at path.
func (b *Bound) RedirectStderr(path string) *Redirect { return RedirectStderr(b, path) }

// RedirectStdin feeds this command's standard input from the file at path.
func (c *Command) RedirectStdin(path string) *Redirect { return RedirectStdin(c, path) }

// RedirectStdin feeds this command's standard input from the file at path.
func (b *Bound) RedirectStdin(path string) *Redirect { return RedirectStdin(b, path) }

// RedirectStdinHandle feeds this command's standard input from f.
func (c *Command) RedirectStdinHandle(f *os.File) *Redirect { return RedirectStdinHandle(c, f) }

// RedirectStdinHandle feeds this command's standard input from f.
func (b *Bound) RedirectStdinHandle(f *os.File) *Redirect { return RedirectStdinHandle(b, f) }

// WithStdinData feeds this command's standard input from a literal string.
func (c *Command) WithStdinData(data string) *StdinData { return WithStdinData(c, data) }

// WithStdinData feeds this command's standard input from a literal string.
func (b *Bound) WithStdinData(data string) *StdinData { return WithStdinData(b, data) }
