// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the cuprum command-line application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/njharman/cuprum/cmd"
	"github.com/njharman/cuprum/internal/ctxlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	if err := cmd.RootCmd.Run(ctx, os.Args); err != nil {
		ctxlog.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
