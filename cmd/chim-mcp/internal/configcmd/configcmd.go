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

// Package configcmd contains the "chim-mcp config" commands.
package configcmd

import (
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
)

// CmdConfig is the "chim-mcp config" command group.
var CmdConfig = &base.Command{
	UsageLine: "chim-mcp config",
	Short:     "show or change the stored configuration",
	Long: `
Config commands show the effective configuration and update the configuration
file (~/.config/chim-mcp/config.json by default, see the -config flag).

Environment variables CHIM_API_KEY, CHIM_API_BASE_URL and CHIM_API_USER_AGENT
take precedence over the values in the file.
`,
	Commands: []*base.Command{cmdShow, cmdSet},
}

var cmdShow = &base.Command{
	UsageLine:  "chim-mcp config show [flags]",
	Short:      "print the effective configuration",
	Long:       "Prints the effective configuration with the API key redacted, and the location of the configuration file.",
	FlagMask:   cfg.OmitTraceFlag,
	PrintFlags: true,
	Run:        runShow,
}

var cmdSet = &base.Command{
	UsageLine: "chim-mcp config set [flags]",
	Short:     "update the configuration file",
	Long: `
Saves the given values to the configuration file, keeping the values that were
not specified.  The file is created with permissions 0600.

If no values are given and the program runs in a terminal, it asks for the API
key without echoing it, so that the key does not end up in the shell history.
`,
	FlagMask:   cfg.OmitTraceFlag,
	PrintFlags: true,
	Run:        runSet,
}
