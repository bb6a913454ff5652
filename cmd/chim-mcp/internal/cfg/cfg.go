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

// Package cfg holds the global command line parameters.
package cfg

import (
	"flag"
	"log/slog"

	"github.com/rusq/osenv/v2"

	"github.com/rusq/chim-mcp/internal/config"
)

var (
	TraceFile   string
	LogFile     string
	JSONHandler bool
	Verbose     bool

	// ConfigFile overrides the location of the stored configuration.
	ConfigFile string

	Log = slog.Default()
)

type FlagMask int

const (
	DefaultFlags  FlagMask = 0
	OmitTraceFlag FlagMask = 1 << iota
	OmitLogFlags
	OmitConfigFlag

	OmitAll = OmitTraceFlag | OmitLogFlags | OmitConfigFlag
)

// SetBaseFlags sets base flags.
func SetBaseFlags(fs *flag.FlagSet, mask FlagMask) {
	fs.BoolVar(&Verbose, "v", osenv.Value("DEBUG", false), "verbose messages")

	if mask&OmitLogFlags == 0 {
		fs.StringVar(&LogFile, "log", osenv.Value("LOG_FILE", ""), "log `file`, if not specified, messages are printed to STDERR")
		fs.BoolVar(&JSONHandler, "log-json", osenv.Value("JSON_LOG", false), "output log messages as JSON")
	}
	if mask&OmitTraceFlag == 0 {
		fs.StringVar(&TraceFile, "trace", osenv.Value("TRACE_FILE", ""), "trace `filename`")
	}
	if mask&OmitConfigFlag == 0 {
		fs.StringVar(&ConfigFile, "config", osenv.Value("CHIM_MCP_CONFIG", ""), "configuration `file` (default: ~/.config/chim-mcp/config.json)")
	}
}

// Store returns the configuration store, either the one given with the
// -config flag or the default one in the user's home directory.
func Store() (*config.Store, error) {
	if ConfigFile != "" {
		return config.NewStore(ConfigFile), nil
	}
	return config.DefaultStore()
}
