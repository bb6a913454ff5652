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

// Package serve contains the CLI command for starting the CHIM MCP server.
package serve

import (
	"context"
	"fmt"
	"strings"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/internal/chim"
	"github.com/rusq/chim-mcp/internal/config"
	"github.com/rusq/chim-mcp/internal/mcp"
	"github.com/rusq/chim-mcp/internal/osext"
)

// CmdServe is the "chim-mcp serve" command.
var CmdServe = &base.Command{
	UsageLine: "chim-mcp serve [flags]",
	Short:     "start the CHIM MCP server",
	Long: `
Starts the MCP server that exposes the CHIM API as tools.

By default the server talks to the MCP client over stdin and stdout, which is
what most MCP hosts expect.  Register it in the host configuration, e.g.:

	{
	  "mcpServers": {
	    "chim": {
	      "command": "chim-mcp",
	      "args": ["serve"],
	      "env": { "CHIM_API_KEY": "<your key>" }
	    }
	  }
	}

With -transport=http the server listens on the -listen address and serves the
Streamable HTTP transport at /mcp.

Configuration is read once at start from the environment (CHIM_API_KEY,
CHIM_API_BASE_URL, CHIM_API_USER_AGENT), then from the configuration file,
then the defaults.  The server starts without an API key; in that case only
chim_get_change_freeze_status and chim_save_api_key are usable.
`,
	PrintFlags: true,
	Run:        runServe,
}

var (
	transport  string
	listenAddr string
)

func init() {
	CmdServe.Flag.StringVar(&transport, "transport", string(mcp.TransportStdio), "MCP transport: \"stdio\" or \"http\"")
	CmdServe.Flag.StringVar(&listenAddr, "listen", "127.0.0.1:8484", "address to listen on when -transport=http")
}

func runServe(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) > 0 {
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	lg := cfg.Log

	st, err := cfg.Store()
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	c, err := config.Load(st)
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	rc := c.Redacted()
	lg.DebugContext(ctx, "serve: configuration", "base_url", rc.BaseURL, "user_agent", rc.UserAgent, "api_key", rc.APIKey, "config_file", st.Path())
	if !c.HasAPIKey() {
		lg.WarnContext(ctx, "serve: API key is not set, only the unauthenticated tools will work", "env", config.EnvAPIKey)
	}

	srv := mcp.New(
		mcp.WithLogger(lg),
		mcp.WithClient(chim.New(c, chim.WithLogger(lg))),
		mcp.WithConfigStore(st),
	)
	return serve(ctx, srv, transport, listenAddr)
}

// server is the subset of *mcp.Server used by serve.
type server interface {
	ServeStdio(ctx context.Context) error
	ServeHTTP(ctx context.Context, addr string) error
}

func serve(ctx context.Context, srv server, transport string, addr string) error {
	lg := cfg.Log
	switch mcp.Transport(strings.ToLower(transport)) {
	case mcp.TransportStdio, "":
		if osext.IsInteractive() {
			lg.InfoContext(ctx, "serve: waiting for an MCP client on stdin, press Ctrl+C to exit")
		}
		return srv.ServeStdio(ctx)
	case mcp.TransportHTTP:
		lg.InfoContext(ctx, "serve: http transport", "addr", addr, "endpoint", "/mcp")
		return srv.ServeHTTP(ctx, addr)
	default:
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unknown transport %q (use %q or %q)", transport, mcp.TransportStdio, mcp.TransportHTTP)
	}
}
