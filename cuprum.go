// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Version and commit information for the cuprum command-line application.
package main

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
