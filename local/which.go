// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package local

import (
	"os"
	"runtime"
	"strings"

	"github.com/njharman/cuprum/command"
	"github.com/njharman/cuprum/fspath"
)

const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// Which looks up a program on the machine's search path. On Windows the
// match is case-insensitive with PATHEXT extension probing; elsewhere the
// file must carry an executable bit. If the exact name is not found,
// underscores are retried as hyphens. A miss yields
// *command.CommandNotFoundError carrying the name and the searched path.
func (m *Machine) Which(progname string) (fspath.Path, error) {
	alternatives := []string{progname}
	if strings.Contains(progname, "_") {
		alternatives = append(alternatives, strings.ReplaceAll(progname, "_", "-"))
	}

	dirs := m.Env.Path().List()

	for _, name := range alternatives {
		for _, dir := range dirs {
			found, ok := m.matchExecutable(dir, name)
			if ok {
				return found, nil
			}
		}
	}

	return fspath.Path{}, &command.CommandNotFoundError{
		Program: progname,
		Path:    m.Env.Path().Strings(),
	}
}

func (m *Machine) matchExecutable(dir fspath.Path, name string) (fspath.Path, bool) {
	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return fspath.Path{}, false
	}

	if runtime.GOOS == "windows" {
		return m.matchWindows(dir, entries, name)
	}

	for _, e := range entries {
		if e.Name() != name || e.IsDir() {
			continue
		}

		fi, err := e.Info()
		if err != nil || fi.Mode()&0o111 == 0 {
			continue
		}

		return dir.Join(name), true
	}

	return fspath.Path{}, false
}

func (m *Machine) matchWindows(dir fspath.Path, entries []os.DirEntry, name string) (fspath.Path, bool) {
	exts := strings.Split(m.Env.GetDefault("PATHEXT", defaultPathExt), ";")
	candidates := make([]string, 0, len(exts)+1)
	candidates = append(candidates, strings.ToLower(name))

	for _, ext := range exts {
		if ext == "" {
			continue
		}

		candidates = append(candidates, strings.ToLower(name+ext))
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		lower := strings.ToLower(e.Name())
		for _, c := range candidates {
			if lower == c {
				return dir.Join(e.Name()), true
			}
		}
	}

	return fspath.Path{}, false
}
