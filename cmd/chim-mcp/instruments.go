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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rusq/tracer"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/internal/config"
	"github.com/rusq/chim-mcp/internal/osext"
)

// logOptions defines the logger output.
type logOptions struct {
	// Filename is the log file.  If empty, messages go to STDERR.
	Filename string
	// JSON selects the JSON handler instead of the text one.
	JSON bool
	// Verbose enables debug messages.
	Verbose bool
}

// secretAttrs are the attribute keys that are masked in the log output.
var secretAttrs = []string{"api_key", "apikey", "authorization"}

func (o logOptions) level() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// handler returns the slog handler that writes to w.
func (o logOptions) handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       o.level(),
		ReplaceAttr: maskSecrets,
	}
	if o.JSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// maskSecrets is the slog.HandlerOptions.ReplaceAttr function that redacts
// the values of secretAttrs.
func maskSecrets(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if !slices.Contains(secretAttrs, strings.ToLower(a.Key)) {
		return a
	}
	return slog.String(a.Key, config.Redact(a.Value.String()))
}

// initLog initialises the default logger and returns it.  In stdio mode
// STDOUT carries the MCP protocol, so messages are written to STDERR, or to
// the log file, if o.Filename is set.  The log file is closed on exit.
func initLog(o logOptions) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	if o.Filename != "" {
		lf, err := openLogFile(o.Filename)
		if err != nil {
			return slog.Default(), err
		}
		base.AtExit(func() {
			if err := lf.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close the log file: %s\n", err)
			}
		})
		w = lf
	}
	lg := slog.New(o.handler(w))
	// SetDefault also redirects the standard "log" package to the handler.
	slog.SetDefault(lg)
	lg.Debug("logger initialised", "file", o.Filename, "json", o.JSON)
	return lg, nil
}

// openLogFile opens the log file for appending.  The directory is created if
// it does not exist.
func openLogFile(filename string) (*os.File, error) {
	dir := filepath.Dir(filename)
	if err := osext.DirExists(dir); errors.Is(err, os.ErrNotExist) {
		if err := osext.EnsureDir(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create the log directory: %w", err)
		}
	}
	lf, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create the log file: %w", err)
	}
	return lf, nil
}

// initTrace starts the runtime trace, if filename is not empty.  It returns
// the function that stops the trace and flushes the file, it is never nil.
func initTrace(lg *slog.Logger, filename string) (stop func()) {
	if filename == "" {
		return func() {}
	}

	trc := tracer.New(filename)
	if err := trc.Start(); err != nil {
		lg.Warn("trace is disabled", "filename", filename, "error", err)
		return func() {}
	}
	lg.Info("trace will be written to", "filename", filename)

	return func() {
		if err := trc.End(); err != nil {
			lg.Warn("failed to write the trace file", "filename", filename, "error", err)
		}
	}
}
