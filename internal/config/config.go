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

// Package config resolves the CHIM API configuration.  Values are taken from
// the environment, then from the user configuration file, then from the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rusq/osenv/v2"
)

const (
	DefaultBaseURL   = "https://api.chim.umbrella.com"
	DefaultUserAgent = "chim-mcp/0.1.0"
)

// Environment variables that override the stored configuration.
const (
	EnvAPIKey    = "CHIM_API_KEY"
	EnvBaseURL   = "CHIM_API_BASE_URL"
	EnvUserAgent = "CHIM_API_USER_AGENT"
)

// ErrMissingAPIKey is returned when an authenticated call is attempted
// without an API key.
var ErrMissingAPIKey = errors.New("missing " + EnvAPIKey + " environment variable. Create an API key in CHIM and export it (or save it with chim_save_api_key) before calling authenticated tools")

// Config is the resolved configuration.  It is a value type and is not
// modified after Load returns.
type Config struct {
	// BaseURL is the base URL of the CHIM API.
	BaseURL string
	// APIKey is used for authenticated requests.  Empty means no key.
	APIKey string
	// UserAgent is sent to CHIM for observability.
	UserAgent string
}

// HasAPIKey reports whether the API key is set.
func (c Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Redacted returns a copy of c with the API key masked, suitable for logging.
func (c Config) Redacted() Config {
	c.APIKey = Redact(c.APIKey)
	return c
}

// Redact masks all but the first few characters of a secret.  Short secrets
// are masked completely.
func Redact(s string) string {
	const keep = 4
	switch {
	case s == "":
		return ""
	case len(s) <= 2*keep:
		return strings.Repeat("*", len(s))
	default:
		return s[:keep] + strings.Repeat("*", len(s)-keep)
	}
}

// Load reads the stored configuration from st and merges it with the
// environment and the defaults.  A missing configuration file is not an
// error.  Load does not modify the file or the environment.
func Load(st *Store) (Config, error) {
	stored, err := st.Read()
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return Config{
		BaseURL:   firstNonEmpty(env(EnvBaseURL), stored.BaseURL, DefaultBaseURL),
		UserAgent: firstNonEmpty(env(EnvUserAgent), stored.UserAgent, DefaultUserAgent),
		APIKey:    firstNonEmpty(env(EnvAPIKey), stored.APIKey),
	}, nil
}

// EnsureAPIKey returns the API key or ErrMissingAPIKey.
func EnsureAPIKey(cfg Config) (string, error) {
	if !cfg.HasAPIKey() {
		return "", ErrMissingAPIKey
	}
	return cfg.APIKey, nil
}

func env(key string) string {
	return strings.TrimSpace(osenv.Value(key, ""))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
