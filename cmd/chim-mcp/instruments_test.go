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

// Command chim-mcp is the MCP server for the CHIM API.
package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefaultLogger restores the default logger and the standard logger
// output after the test.
func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	old := slog.Default()
	flags := log.Flags()
	t.Cleanup(func() {
		slog.SetDefault(old)
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
}

func Test_maskSecrets(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want slog.Value
	}{
		{"api key", slog.String("api_key", "abcdefghijkl"), slog.StringValue("abcd********")},
		{"case insensitive", slog.String("Authorization", "Api-Key abcdefgh"), slog.StringValue("Api-************")},
		{"short secret", slog.String("apikey", "abc"), slog.StringValue("***")},
		{"empty secret", slog.String("api_key", ""), slog.StringValue("")},
		{"other key", slog.String("path", "/api/v1/changes/"), slog.StringValue("/api/v1/changes/")},
		{"not a string", slog.Int("api_key", 42), slog.IntValue(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maskSecrets(nil, tt.attr)
			assert.Equal(t, tt.attr.Key, got.Key)
			assert.True(t, tt.want.Equal(got.Value), "got %v, want %v", got.Value, tt.want)
		})
	}
}

func Test_logOptions_handler(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var sb strings.Builder
		lg := slog.New(logOptions{}.handler(&sb))
		lg.Debug("hidden")
		lg.Info("request", "api_key", "abcdefghijkl")
		out := sb.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=request")
		assert.Contains(t, out, "api_key=abcd********")
		assert.NotContains(t, out, "abcdefghijkl")
	})
	t.Run("json verbose", func(t *testing.T) {
		var sb strings.Builder
		lg := slog.New(logOptions{JSON: true, Verbose: true}.handler(&sb))
		lg.Debug("request", "api_key", "abcdefghijkl")

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(sb.String()), &rec))
		assert.Equal(t, "DEBUG", rec["level"])
		assert.Equal(t, "request", rec["msg"])
		assert.Equal(t, "abcd********", rec["api_key"])
	})
}

func Test_initLog(t *testing.T) {
	t.Run("file in a new directory", func(t *testing.T) {
		restoreDefaultLogger(t)
		filename := filepath.Join(t.TempDir(), "logs", "chim.log")

		lg, err := initLog(logOptions{Filename: filename, JSON: true})
		require.NoError(t, err)
		assert.Same(t, lg, slog.Default())
		lg.Info("hello", "api_key", "abcdefghijkl")

		b, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"msg":"hello"`)
		assert.NotContains(t, string(b), "abcdefghijkl")

		fi, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	})
	t.Run("standard log goes to the file", func(t *testing.T) {
		restoreDefaultLogger(t)
		filename := filepath.Join(t.TempDir(), "chim.log")

		_, err := initLog(logOptions{Filename: filename})
		require.NoError(t, err)
		log.Print("from the log package")

		b, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Contains(t, string(b), "from the log package")
	})
	t.Run("unwritable location", func(t *testing.T) {
		restoreDefaultLogger(t)
		dir := t.TempDir()
		notADir := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(notADir, nil, 0o600))

		lg, err := initLog(logOptions{Filename: filepath.Join(notADir, "chim.log")})
		assert.Error(t, err)
		assert.NotNil(t, lg)
	})
}

func Test_initTrace(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		stop := initTrace(slog.Default(), "")
		require.NotNil(t, stop)
		stop()
	})
	t.Run("file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "trace.out")
		stop := initTrace(slog.Default(), filename)
		stop()
		assert.FileExists(t, filename)
	})
}
