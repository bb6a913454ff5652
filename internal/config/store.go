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

package config

// In this file: the user configuration file.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rusq/chim-mcp/internal/osext"
)

const (
	configDir  = "chim-mcp"
	configFile = "config.json"
)

// Permissions of the configuration directory and file.  The file may hold
// the API key.
const (
	DirPerm  os.FileMode = 0o700
	FilePerm os.FileMode = 0o600
)

// Stored is the persisted configuration record.  Empty fields are absent.
type Stored struct {
	BaseURL   string `json:"baseUrl,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
}

// merge returns s with the non-empty fields of upd applied.
func (s Stored) merge(upd Stored) Stored {
	if upd.BaseURL != "" {
		s.BaseURL = upd.BaseURL
	}
	if upd.UserAgent != "" {
		s.UserAgent = upd.UserAgent
	}
	if upd.APIKey != "" {
		s.APIKey = upd.APIKey
	}
	return s
}

// UserConfigPath returns the path of the user configuration file,
// $HOME/.config/chim-mcp/config.json.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", configDir, configFile), nil
}

// Store is the configuration file.  Concurrent Saves are not synchronised,
// the last writer wins.
type Store struct {
	path string
}

// NewStore returns the Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns the Store for the user configuration file.
func DefaultStore() (*Store, error) {
	p, err := UserConfigPath()
	if err != nil {
		return nil, err
	}
	return NewStore(p), nil
}

// Path returns the file path.
func (st *Store) Path() string {
	return st.path
}

// Read reads the stored configuration.  If the file does not exist, it
// returns an empty record.  Fields that are not strings are ignored, as is a
// document that is not a JSON object.
func (st *Store) Read() (Stored, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stored{}, nil
		}
		return Stored{}, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Stored{}, &osext.Error{File: st.path, Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Stored{}, nil
	}
	return Stored{
		BaseURL:   stringField(obj, "baseUrl"),
		UserAgent: stringField(obj, "userAgent"),
		APIKey:    stringField(obj, "apiKey"),
	}, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// Save merges the non-empty fields of upd into the stored configuration and
// writes it back.  The directory and the file are created with owner-only
// permissions.
func (st *Store) Save(upd Stored) error {
	cur, err := st.Read()
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	next := cur.merge(upd)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("save config: encode: %w", err)
	}
	if err := osext.EnsureDir(filepath.Dir(st.path), DirPerm); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := osext.WriteFileAtomic(st.path, data, FilePerm); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
