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

// Package updater checks for new releases of chim-mcp.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// DefaultReleasesURL is the GitHub releases endpoint, newest release first.
const DefaultReleasesURL = "https://api.github.com/repos/rusq/chim-mcp/releases?per_page=1"

var (
	ErrStatus         = errors.New("invalid status code")
	ErrNoVersions     = errors.New("no versions found")
	ErrNoNewReleases  = errors.New("no new releases")
	ErrInvalidVersion = errors.New("not a semantic version")
)

// Checker looks up the latest release.
type Checker struct {
	releasesURL string
	cl          *http.Client
}

type Option func(*Checker)

// WithReleasesURL sets the releases URL.
func WithReleasesURL(u string) Option {
	return func(c *Checker) {
		if u != "" {
			c.releasesURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(cl *http.Client) Option {
	return func(c *Checker) {
		if cl != nil {
			c.cl = cl
		}
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{
		releasesURL: DefaultReleasesURL,
		cl:          http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Release describes a published release.
type Release struct {
	Version    string
	ReleasedAt time.Time
	Notes      string
	IsStable   bool
}

// IsNewer reports whether r is newer than the current version.  The "v"
// prefix of current is optional.
func (r Release) IsNewer(current string) (bool, error) {
	cur := canonical(current)
	if !semver.IsValid(cur) {
		return false, fmt.Errorf("%w: %q", ErrInvalidVersion, current)
	}
	return semver.Compare(canonical(r.Version), cur) > 0, nil
}

func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Latest returns the latest version released on github.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	grr, err := c.getLatestRelease(ctx)
	if err != nil {
		return Release{}, err
	}
	r := Release{
		Version:    grr.TagName,
		ReleasedAt: grr.PublishedAt,
		Notes:      grr.Body,
		IsStable:   !grr.PreRelease,
	}
	if grr.Draft {
		return r, ErrNoNewReleases
	}
	return r, nil
}

type ghReleaseResponse struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
	PreRelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
}

// getLatestRelease returns the latest release from the Github, assuming
// that releasesURL is the Releases URL.
func (c *Checker) getLatestRelease(ctx context.Context) (*ghReleaseResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: want 200, got %d", ErrStatus, resp.StatusCode)
	}
	var versions []ghReleaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("failed to decode github response: %w", err)
	}
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}
	ver := versions[0]
	if ver.TagName == "" || !semver.IsValid(canonical(ver.TagName)) {
		return nil, ErrNoVersions
	}
	return &ver, nil
}
