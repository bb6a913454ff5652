// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package osext

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotADir = errors.New("not a directory")
	ErrIsADir  = errors.New("is a directory")
)

// DirExists returns nil if dir exists and is a directory.
func DirExists(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return ErrNotADir
	}
	return nil
}

// FileExists returns nil if name exists and is not a directory.
func FileExists(name string) error {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return ErrIsADir
	}
	return nil
}

// EnsureDir creates dir with all missing parents and sets its permissions to
// perm.  Parents that are created along the way get perm as well.  Permissions
// of an existing dir are reset to perm.
func EnsureDir(dir string, perm os.FileMode) error {
	if err := DirExists(dir); err != nil {
		if errors.Is(err, ErrNotADir) {
			return &Error{File: dir, Err: err}
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	// MkdirAll is subject to umask.
	if err := os.Chmod(dir, perm); err != nil {
		return fmt.Errorf("chmod directory: %w", err)
	}
	return nil
}
