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
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file in the same directory as
// name and renames it over name, so that readers never observe a partially
// written file.  The resulting file has permissions perm.
func WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tf, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tf.Name()
	// cleanup is a no-op once the rename succeeded.
	defer os.Remove(tmpName)

	if err := tf.Chmod(perm); err != nil {
		tf.Close()
		return &Error{File: tmpName, Err: err}
	}
	if _, err := tf.Write(data); err != nil {
		tf.Close()
		return &Error{File: tmpName, Err: err}
	}
	if err := tf.Sync(); err != nil {
		tf.Close()
		return &Error{File: tmpName, Err: err}
	}
	if err := tf.Close(); err != nil {
		return &Error{File: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, name); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
