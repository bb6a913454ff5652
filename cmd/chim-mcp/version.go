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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/internal/updater"
)

// set by the linker.
var (
	version = "dev"
	commit  = "placeholder"
	date    = "unknown"
)

var CmdVersion = &base.Command{
	UsageLine: "chim-mcp version [flags]",
	Short:     "print version and exit",
	Long: `
Prints version and exits, not much else to say.

With -check, also looks up the latest release on GitHub.
`,
	FlagMask:   cfg.OmitAll,
	PrintFlags: true,
	Run:        versionRun,
}

var checkUpdates bool

func init() {
	CmdVersion.Flag.BoolVar(&checkUpdates, "check", false, "check for a newer release")
}

var (
	stdout     io.Writer = os.Stdout
	newChecker           = func() *updater.Checker { return updater.New() }
)

const checkTimeout = 10 * time.Second

func versionRun(ctx context.Context, cmd *base.Command, args []string) error {
	if _, err := fmt.Fprintf(stdout, "%s %s (commit: %s) built on: %s\n", base.CmdName, version, commit, date); err != nil {
		return err
	}
	if !checkUpdates {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	rel, err := newChecker().Latest(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrNoNewReleases) || errors.Is(err, updater.ErrNoVersions) {
			fmt.Fprintln(stdout, "No releases published yet.")
			return nil
		}
		base.SetExitStatus(base.SApplicationError)
		return fmt.Errorf("update check: %w", err)
	}
	newer, err := rel.IsNewer(version)
	if err != nil {
		// development build
		fmt.Fprintf(stdout, "Latest release: %s (%s)\n", rel.Version, rel.ReleasedAt.Format(time.DateOnly))
		return nil
	}
	if newer {
		color.New(color.FgGreen).Fprintf(stdout, "A new version is available: %s (released %s)\n", rel.Version, rel.ReleasedAt.Format(time.DateOnly))
		return nil
	}
	fmt.Fprintln(stdout, "You are running the latest version.")
	return nil
}
