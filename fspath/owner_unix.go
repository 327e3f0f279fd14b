// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package fspath

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// Owner returns the user name owning the path (or the numeric uid when no
// passwd entry exists). Ownership queries go through the real OS metadata
// regardless of the backing filesystem.
func (p Path) Owner() (string, error) {
	uid, _, err := p.ids()
	if err != nil {
		return "", err
	}

	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return strconv.Itoa(uid), nil //nolint:nilerr
	}

	return u.Username, nil
}

// Group returns the group name owning the path (or the numeric gid when no
// group entry exists).
func (p Path) Group() (string, error) {
	_, gid, err := p.ids()
	if err != nil {
		return "", err
	}

	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		return strconv.Itoa(gid), nil //nolint:nilerr
	}

	return g.Name, nil
}

// ChownNames changes ownership by user and group name, resolving them via
// the native account database. Empty names leave that side unchanged.
func (p Path) ChownNames(owner, group string) error {
	uid, gid := -1, -1

	if owner != "" {
		u, err := user.Lookup(owner)
		if err != nil {
			return err
		}

		uid, err = strconv.Atoi(u.Uid)
		if err != nil {
			return err
		}
	}

	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			return err
		}

		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return err
		}
	}

	return p.Chown(uid, gid)
}

func (p Path) ids() (uid, gid int, err error) {
	fi, err := os.Stat(p.raw)
	if err != nil {
		return 0, 0, err
	}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, fmt.Errorf("no ownership data for %s", p.raw)
	}

	return int(st.Uid), int(st.Gid), nil
}
