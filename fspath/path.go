// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fspath provides an immutable filesystem path value with a finite,
// explicit operation set: lexical manipulation plus filesystem access
// through an injectable afero.Fs. Normalization keeps the empty path empty
// and preserves a single trailing separator; duplicates are collapsed.
package fspath

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Sep is the platform path separator as a string.
var Sep = string(filepath.Separator)

// FsFactory returns the filesystem backing paths created with New. Tests
// may substitute an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Path is an immutable filesystem path. The zero value is the empty path.
type Path struct {
	raw string
	fs  afero.Fs
}

// New returns a Path from one or more elements, normalized. Elements beyond
// the first are joined as for Join.
func New(elem ...string) Path {
	return NewOn(nil, elem...)
}

// NewOn is New on an explicit filesystem. A nil fs means FsFactory().
func NewOn(fs afero.Fs, elem ...string) Path {
	p := Path{fs: fs}
	if len(elem) == 0 {
		return p
	}

	p.raw = normalize(elem[0])
	if len(elem) > 1 {
		p = p.Join(elem[1:]...)
	}

	return p
}

// normalize cleans a path while keeping "" as "" and preserving a single
// trailing separator.
func normalize(s string) string {
	if s == "" {
		return ""
	}

	s = filepath.FromSlash(s)
	trailing := strings.HasSuffix(s, Sep)
	s = filepath.Clean(s)

	if trailing && s != Sep {
		s += Sep
	}

	return s
}

func (p Path) String() string { return p.raw }

// IsEmpty reports whether this is the empty path.
func (p Path) IsEmpty() bool { return p.raw == "" }

// Equal compares two paths, case-insensitively on Windows. The trailing
// separator is significant.
func (p Path) Equal(other Path) bool {
	a, b := p.raw, other.raw
	if runtime.GOOS == "windows" {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}

	return a == b
}

// Join returns p joined with any number of path bits. Empty bits are
// dropped, and an absolute bit does not reset the path: Join("/wtf") on
// /foo/bar yields /foo/bar/wtf.
func (p Path) Join(bits ...string) Path {
	parts := make([]string, 0, len(bits)+1)
	if p.raw != "" {
		parts = append(parts, p.raw)
	}

	for _, b := range bits {
		if b == "" {
			continue
		}

		if len(parts) > 0 {
			b = strings.TrimLeft(b, Sep+"/")
		}

		parts = append(parts, b)
	}

	if len(parts) == 0 {
		return Path{fs: p.fs}
	}

	trailing := strings.HasSuffix(parts[len(parts)-1], Sep) ||
		strings.HasSuffix(parts[len(parts)-1], "/")

	joined := filepath.Join(parts...)
	if trailing && joined != Sep {
		joined += Sep
	}

	return Path{raw: normalize(joined), fs: p.fs}
}

// Base returns the last element of the path.
func (p Path) Base() string {
	if p.raw == "" {
		return ""
	}

	return filepath.Base(strings.TrimSuffix(p.raw, Sep))
}

// Dir returns the path without its last element. The root is its own
// parent.
func (p Path) Dir() Path {
	if p.raw == "" {
		return Path{fs: p.fs}
	}

	trimmed := strings.TrimSuffix(p.raw, Sep)
	if trimmed == "" {
		trimmed = Sep
	}

	return Path{raw: normalize(filepath.Dir(trimmed)), fs: p.fs}
}

// Up goes up count directories (default use: Up(1)).
func (p Path) Up(count int) Path {
	q := p
	for range count {
		q = q.Dir()
	}

	return q
}

// Split returns the path elements, split on the separator.
func (p Path) Split() []string {
	trimmed := strings.Trim(p.raw, Sep)
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, Sep)
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return filepath.IsAbs(p.raw)
}

func (p Path) fsys() afero.Fs {
	if p.fs != nil {
		return p.fs
	}

	return FsFactory()
}
