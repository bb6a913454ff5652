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

package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/rusq/chim-mcp/internal/chim"
	"github.com/rusq/chim-mcp/internal/config"
)

const (
	serverName    = "chim-mcp"
	serverVersion = "0.1.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for MCP hosts that start the server as a subprocess).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

//go:generate mockgen -destination=mock_mcp/mock_mcp.go . Requester,ConfigSaver

// Requester performs CHIM API requests.  It is implemented by *chim.Client.
type Requester interface {
	Request(ctx context.Context, opts chim.RequestOptions) (chim.Result, error)
}

// ConfigSaver persists the user configuration.  It is implemented by
// *config.Store.
type ConfigSaver interface {
	Save(upd config.Stored) error
	Path() string
}

// Server wraps an MCP server and the CHIM API client.
type Server struct {
	mcp    *mcpsrv.MCPServer
	client Requester
	store  ConfigSaver
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.  Nil means slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithClient sets the CHIM API client used by the tools.
func WithClient(r Requester) Option {
	return func(s *Server) {
		s.client = r
	}
}

// WithConfigStore sets the store used by chim_save_api_key.
func WithConfigStore(st ConfigSaver) Option {
	return func(s *Server) {
		s.store = st
	}
}

// errNoClient is returned by the API tools if the server was created without
// a client.
var errNoClient = errors.New("CHIM API client is not configured")

// errNoStore is returned by chim_save_api_key if the server was created
// without a configuration store.
var errNoStore = errors.New("configuration store is not available")

// New creates a new MCP server.  The server is populated with all available
// tools but does not start listening until one of the Serve* methods is
// called.
func New(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithToolCapabilities(false),
		mcpsrv.WithRecovery(),
		mcpsrv.WithInstructions(instructions()),
	)

	s.mcp = mcpServer
	for _, t := range s.tools() {
		s.addTool(t)
	}
	return s
}

// instructions returns the server instructions for the connecting agent.
func instructions() string {
	return `You are connected to the CHIM MCP server.

CHIM manages change notifications, incident/outage notifications and
retrospectives.  Available tools allow you to:
- Check the change-freeze status of CHIM and each product suite
- List change notifications, outages and retrospectives (paginated, searchable)
- Create change and outage notifications (use dry_run to validate a payload first)
- Store the CHIM API key in the local configuration file

All tools except the change-freeze status require an API key.  If a tool
reports a missing key, ask the user for one and call chim_save_api_key, then
restart the server.
`
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport used by local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// httpEndpoint is the path of the Streamable HTTP endpoint.
const httpEndpoint = "/mcp"

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as "127.0.0.1:8484".
// The endpoint is served at /mcp.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(httpEndpoint, mcpsrv.NewStreamableHTTPServer(s.mcp))
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr, "endpoint", httpEndpoint)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcp http server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info("mcp server shutting down")
		if err := httpSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolSaveAPIKey(),
		s.toolGetChangeFreezeStatus(),
		s.toolListChanges(),
		s.toolCreateChange(),
		s.toolListOutages(),
		s.toolCreateOutage(),
		s.toolListRetros(),
	}
}

// addTool registers the tool with the MCP server and logs its name.
func (s *Server) addTool(tool mcpsrv.ServerTool) {
	s.logger.Debug("mcp: registering tool", "name", tool.Tool.Name)
	s.mcp.AddTool(tool.Tool, tool.Handler)
}

// resultText is a helper that wraps text in a successful CallToolResult.
func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

// resultErr is a helper that wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// resultJSON serialises v to indented JSON and wraps it in a successful
// CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return resultText(string(data)), nil
}

// resultAPI renders the CHIM API response.
func resultAPI(r chim.Result) *mcplib.CallToolResult {
	return resultText(r.Indent())
}
