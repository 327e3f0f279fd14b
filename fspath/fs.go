// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fspath

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	defaultFileMode = os.FileMode(0o644)
	defaultDirMode  = os.FileMode(0o755)
)

// Exists reports whether the path exists.
func (p Path) Exists() bool {
	ok, err := afero.Exists(p.fsys(), p.raw)
	return err == nil && ok
}

// IsDir reports whether the path is a directory.
func (p Path) IsDir() bool {
	fi, err := p.fsys().Stat(p.raw)
	return err == nil && fi.IsDir()
}

// IsFile reports whether the path is a regular file.
func (p Path) IsFile() bool {
	fi, err := p.fsys().Stat(p.raw)
	return err == nil && fi.Mode().IsRegular()
}

// Stat returns the path's file info.
func (p Path) Stat() (os.FileInfo, error) {
	return p.fsys().Stat(p.raw)
}

// Size returns the file size in bytes.
func (p Path) Size() (int64, error) {
	fi, err := p.Stat()
	if err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

// Mode returns the file mode.
func (p Path) Mode() (os.FileMode, error) {
	fi, err := p.Stat()
	if err != nil {
		return 0, err
	}

	return fi.Mode(), nil
}

// Chmod changes the file mode, using the native call rather than an
// external program.
func (p Path) Chmod(mode os.FileMode) error {
	return p.fsys().Chmod(p.raw, mode)
}

// Chown changes numeric ownership, using the native call rather than an
// external program.
func (p Path) Chown(uid, gid int) error {
	return p.fsys().Chown(p.raw, uid, gid)
}

// Open opens the path for reading.
func (p Path) Open() (afero.File, error) {
	return p.fsys().Open(p.raw)
}

// Create creates or truncates the path.
func (p Path) Create() (afero.File, error) {
	return p.fsys().Create(p.raw)
}

// Read returns the contents of the file.
func (p Path) Read() ([]byte, error) {
	return afero.ReadFile(p.fsys(), p.raw)
}

// Write replaces the contents of the file.
func (p Path) Write(data []byte) error {
	return afero.WriteFile(p.fsys(), p.raw, data, defaultFileMode)
}

// Touch sets the access and modification times to now, creating the file if
// necessary.
func (p Path) Touch() error {
	fsys := p.fsys()

	if !p.Exists() {
		f, err := fsys.Create(p.raw)
		if err != nil {
			return err
		}

		return f.Close()
	}

	now := time.Now()

	return fsys.Chtimes(p.raw, now, now)
}

// Mkdir creates the directory and any missing parents; an existing
// directory is not an error.
func (p Path) Mkdir() error {
	return p.fsys().MkdirAll(p.raw, defaultDirMode)
}

// Delete removes the path, recursively for directories. A missing path is
// not an error.
func (p Path) Delete() error {
	if !p.Exists() {
		return nil
	}

	return p.fsys().RemoveAll(p.raw)
}

// Move moves the path to dest and returns dest. With force an existing
// destination is deleted first.
func (p Path) Move(dest Path, force bool) (Path, error) {
	dest.fs = p.fs

	if force {
		if err := dest.Delete(); err != nil {
			return dest, err
		}
	}

	return dest, p.fsys().Rename(p.raw, dest.raw)
}

// Rename changes only the basename and returns the new path.
func (p Path) Rename(newName string) (Path, error) {
	return p.Move(p.Dir().Join(newName), false)
}

// Copy copies the path to dest, recursively for directories, and returns
// dest. With force an existing destination is deleted first.
func (p Path) Copy(dest Path, force bool) (Path, error) {
	dest.fs = p.fs

	if force {
		if err := dest.Delete(); err != nil {
			return dest, err
		}
	}

	if p.IsDir() {
		return dest, p.copyTree(dest)
	}

	return dest, p.copyFile(dest)
}

func (p Path) copyFile(dest Path) error {
	fsys := p.fsys()

	src, err := fsys.Open(p.raw)
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck

	fi, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := fsys.OpenFile(dest.raw, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}

	return dst.Close()
}

func (p Path) copyTree(dest Path) error {
	fsys := p.fsys()

	return afero.Walk(fsys, p.raw, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(p.raw, path)
		if err != nil {
			return err
		}

		target := dest.Join(rel)
		if fi.IsDir() {
			return fsys.MkdirAll(target.raw, fi.Mode().Perm())
		}

		return Path{raw: path, fs: p.fs}.copyFile(target)
	})
}

// List returns the entries of a directory as paths, or the path itself for
// a file.
func (p Path) List() ([]Path, error) {
	if p.IsFile() {
		return []Path{p}, nil
	}

	entries, err := afero.ReadDir(p.fsys(), p.raw)
	if err != nil {
		return nil, err
	}

	out := make([]Path, 0, len(entries))
	for _, e := range entries {
		out = append(out, p.Join(e.Name()))
	}

	return out, nil
}

// Glob returns the (possibly empty) list of paths matching the glob pattern
// under this path.
func (p Path) Glob(pattern string) ([]Path, error) {
	matches, err := afero.Glob(p.fsys(), p.Join(pattern).raw)
	if err != nil {
		return nil, err
	}

	out := make([]Path, 0, len(matches))
	for _, m := range matches {
		out = append(out, Path{raw: normalize(m), fs: p.fs})
	}

	return out, nil
}

// Walk traverses all sub-elements under this directory that match the
// filter. Once a directory matches, everything below it is yielded without
// further filtering. A nil filter accepts everything.
func (p Path) Walk(filter func(Path) bool) ([]Path, error) {
	entries, err := p.List()
	if err != nil {
		return nil, err
	}

	var out []Path

	for _, e := range entries {
		if filter != nil && !filter(e) {
			continue
		}

		out = append(out, e)

		if e.IsDir() {
			sub, err := e.Walk(nil)
			if err != nil {
				return nil, err
			}

			out = append(out, sub...)
		}
	}

	return out, nil
}
