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

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the configuration variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvBaseURL, EnvUserAgent} {
		t.Setenv(k, "")
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), ".config", "chim-mcp", "config.json"))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		stored  string // file contents, empty means no file
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: Config{BaseURL: DefaultBaseURL, UserAgent: DefaultUserAgent},
		},
		{
			name:   "stored values",
			stored: `{"baseUrl":"https://stored.example.com","userAgent":"stored/1.0","apiKey":"stored-key"}`,
			want:   Config{BaseURL: "https://stored.example.com", UserAgent: "stored/1.0", APIKey: "stored-key"},
		},
		{
			name: "environment overrides stored",
			env: map[string]string{
				EnvBaseURL:   "B",
				EnvUserAgent: "env-agent",
				EnvAPIKey:    "env-api-key",
			},
			stored: `{"baseUrl":"A","userAgent":"stored/1.0","apiKey":"stored-key"}`,
			want:   Config{BaseURL: "B", UserAgent: "env-agent", APIKey: "env-api-key"},
		},
		{
			name:   "environment is trimmed",
			env:    map[string]string{EnvAPIKey: "  padded  "},
			stored: `{}`,
			want:   Config{BaseURL: DefaultBaseURL, UserAgent: DefaultUserAgent, APIKey: "padded"},
		},
		{
			name:   "blank environment falls through",
			env:    map[string]string{EnvBaseURL: "   "},
			stored: `{"baseUrl":"A"}`,
			want:   Config{BaseURL: "A", UserAgent: DefaultUserAgent},
		},
		{
			name:   "non-string fields are ignored",
			stored: `{"baseUrl":42,"apiKey":true,"userAgent":"ua"}`,
			want:   Config{BaseURL: DefaultBaseURL, UserAgent: "ua"},
		},
		{
			name:   "non-object document is ignored",
			stored: `["a","b"]`,
			want:   Config{BaseURL: DefaultBaseURL, UserAgent: DefaultUserAgent},
		},
		{
			name:    "corrupt file",
			stored:  `{not json`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			st := testStore(t)
			if tt.stored != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(st.Path()), 0o700))
				require.NoError(t, os.WriteFile(st.Path(), []byte(tt.stored), 0o600))
			}

			got, err := Load(st)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_unreadable(t *testing.T) {
	clearEnv(t)
	// a directory in place of the file is not "file does not exist".
	st := NewStore(t.TempDir())
	_, err := Load(st)
	assert.Error(t, err)
}

func TestEnsureAPIKey(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		key, err := EnsureAPIKey(Config{BaseURL: DefaultBaseURL, UserAgent: DefaultUserAgent, APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, "test-key", key)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := EnsureAPIKey(Config{BaseURL: DefaultBaseURL, UserAgent: DefaultUserAgent})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
		assert.ErrorContains(t, err, "missing CHIM_API_KEY")
	})
}

func TestConfig_Redacted(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"long", "abcdefghijkl", "abcd********"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{BaseURL: "u", UserAgent: "a", APIKey: tt.key}
			got := c.Redacted()
			assert.Equal(t, tt.want, got.APIKey)
			assert.Equal(t, tt.key, c.APIKey, "original must not change")
		})
	}
}
