// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package fspath

import "errors"

// ErrOwnershipUnsupported is returned for ownership queries on platforms
// without POSIX ownership semantics.
var ErrOwnershipUnsupported = errors.New("file ownership is not supported on this platform")

// Owner is unsupported on this platform.
func (p Path) Owner() (string, error) { return "", ErrOwnershipUnsupported }

// Group is unsupported on this platform.
func (p Path) Group() (string, error) { return "", ErrOwnershipUnsupported }

// ChownNames is unsupported on this platform.
func (p Path) ChownNames(owner, group string) error { return ErrOwnershipUnsupported }
