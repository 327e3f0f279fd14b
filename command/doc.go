// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package command builds and runs external programs from composable,
// immutable values. A Command names an executable; With binds arguments;
// Pipe, the Redirect constructors and WithStdinData compose pipelines and
// stream redirections. Nothing executes until Run, Start or RunFG is called.
//
//	grep := command.New("grep").With("b")
//	res, err := command.Run(ctx, command.WithStdinData(grep, "a\nb\nc"))
//
// Exit codes are validated against an ExitSpec; timeouts are enforced by a
// shared watchdog; failures carry the argument vector and captured output.
package command
