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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/rusq/osenv/v2"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/internal/config"
	"github.com/rusq/chim-mcp/internal/osext"
)

var errNothingToSave = errors.New("nothing to save, specify at least one of -api-key, -base-url or -user-agent")

var setParams struct {
	apiKey    string
	baseURL   string
	userAgent string
}

func init() {
	cmdSet.Flag.StringVar(&setParams.apiKey, "api-key", "", "CHIM API `key`, if omitted in a terminal, the key is requested interactively")
	cmdSet.Flag.StringVar(&setParams.baseURL, "base-url", "", "CHIM API base `URL`")
	cmdSet.Flag.StringVar(&setParams.userAgent, "user-agent", "", "User-Agent `header` sent to CHIM")
}

var (
	isInteractive = osext.IsInteractive
	readSecret    = osext.ReadSecret
)

func runSet(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) > 0 {
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	upd := config.Stored{
		APIKey:    strings.TrimSpace(setParams.apiKey),
		BaseURL:   strings.TrimSpace(setParams.baseURL),
		UserAgent: strings.TrimSpace(setParams.userAgent),
	}
	if upd == (config.Stored{}) {
		if !isInteractive() {
			base.SetExitStatus(base.SInvalidParameters)
			return errNothingToSave
		}
		key, err := readSecret(os.Stderr, "CHIM API key: ")
		if err != nil {
			base.SetExitStatus(base.SUserError)
			return fmt.Errorf("read API key: %w", err)
		}
		if key == "" {
			base.SetExitStatus(base.SInvalidParameters)
			return errNothingToSave
		}
		upd.APIKey = key
	}
	if err := validateUpdate(upd); err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}

	st, err := cfg.Store()
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	if err := st.Save(upd); err != nil {
		base.SetExitStatus(base.SApplicationError)
		return err
	}
	cfg.Log.DebugContext(ctx, "config saved", "path", st.Path())
	printSaved(os.Stdout, st.Path(), upd)
	return nil
}

var validate = validator.New()

func validateUpdate(upd config.Stored) error {
	if err := validate.Var(upd.BaseURL, "omitempty,url"); err != nil {
		return fmt.Errorf("invalid base URL %q", upd.BaseURL)
	}
	return nil
}

func printSaved(w io.Writer, path string, upd config.Stored) {
	var fields []string
	if upd.APIKey != "" {
		fields = append(fields, "API key")
	}
	if upd.BaseURL != "" {
		fields = append(fields, "base URL")
	}
	if upd.UserAgent != "" {
		fields = append(fields, "User-Agent")
	}
	color.New(color.FgGreen).Fprint(w, "Saved ")
	fmt.Fprintf(w, "%s to %s\n", strings.Join(fields, ", "), path)
	if osenv.Value(config.EnvAPIKey, "") != "" && upd.APIKey != "" {
		cfgWarn.Fprintf(w, "Note: %s is set in the environment and takes precedence over the saved key.\n", config.EnvAPIKey)
	}
}
