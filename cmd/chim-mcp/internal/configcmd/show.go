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

package configcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/internal/config"
	"github.com/rusq/chim-mcp/internal/osext"
)

var (
	cfgLabel = color.New(color.Bold)
	cfgWarn  = color.New(color.FgYellow)
)

func runShow(ctx context.Context, cmd *base.Command, args []string) error {
	st, err := cfg.Store()
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	c, err := config.Load(st)
	if err != nil {
		base.SetExitStatus(base.SUserError)
		return err
	}
	return printConfig(os.Stdout, st.Path(), c)
}

// printConfig prints the configuration c with the API key redacted.
func printConfig(w io.Writer, path string, c config.Config) error {
	state := "exists"
	if err := osext.FileExists(path); err != nil {
		state = "not created yet"
	}
	rc := c.Redacted()
	rows := []struct {
		label string
		value string
		hint  string
	}{
		{"Config file", path + " (" + state + ")", ""},
		{"Base URL", rc.BaseURL, ""},
		{"User-Agent", rc.UserAgent, ""},
		{"API key", rc.APIKey, ", export " + config.EnvAPIKey + " or run \"chim-mcp config set\""},
	}
	for _, r := range rows {
		if _, err := cfgLabel.Fprintf(w, "%-13s", r.label+":"); err != nil {
			return err
		}
		if r.value == "" {
			_, err := cfgWarn.Fprintf(w, "(not set%s)\n", r.hint)
			if err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, r.value); err != nil {
			return err
		}
	}
	return nil
}
