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

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/rusq/chim-mcp/internal/mcp/mock_mcp"
)

// newTestServer creates a *Server backed by mock client and store.
func newTestServer(t *testing.T, ctrl *gomock.Controller) (*Server, *mock_mcp.MockRequester, *mock_mcp.MockConfigSaver) {
	t.Helper()
	cl := mock_mcp.NewMockRequester(ctrl)
	st := mock_mcp.NewMockConfigSaver(ctrl)
	srv := New(WithLogger(nil), WithClient(cl), WithConfigStore(st))
	require.NotNil(t, srv)
	return srv, cl, st
}

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// ─── New / options ────────────────────────────────────────────────────────────

func TestNew_noOptions(t *testing.T) {
	srv := New()
	require.NotNil(t, srv)
	assert.NotNil(t, srv.mcp)
	assert.Nil(t, srv.client)
	assert.Nil(t, srv.store)
	assert.NotNil(t, srv.logger)
}

func TestNew_withLogger_nil(t *testing.T) {
	// A nil logger must not panic and must fall back to slog.Default().
	assert.NotPanics(t, func() {
		srv := New(WithLogger(nil))
		assert.NotNil(t, srv.logger)
	})
}

func TestNew_notNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv, _, _ := newTestServer(t, ctrl)
	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.client)
	assert.NotNil(t, srv.store)
	assert.NotNil(t, srv.logger)
}

func TestAddTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv, _, _ := newTestServer(t, ctrl)

	extra := mcpsrv.ServerTool{
		Tool: mcplib.NewTool("extra_tool", mcplib.WithDescription("extra")),
		Handler: func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			return resultText("ok"), nil
		},
	}
	srv.addTool(extra)

	schemas := listTools(t, srv)
	assert.Len(t, schemas, 8)
	assert.Contains(t, schemas, "extra_tool")
	assert.Contains(t, schemas, "chim_list_changes")
}

func TestInstructions(t *testing.T) {
	got := instructions()
	assert.Contains(t, got, "chim_save_api_key")
	assert.Contains(t, got, "dry_run")
}

func TestTools_names(t *testing.T) {
	srv := New()
	var names []string
	for _, tool := range srv.tools() {
		names = append(names, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
		assert.NotNil(t, tool.Handler, tool.Tool.Name)
	}
	assert.Equal(t, []string{
		"chim_save_api_key",
		"chim_get_change_freeze_status",
		"chim_list_changes",
		"chim_create_change",
		"chim_list_outages",
		"chim_create_outage",
		"chim_list_retros",
	}, names)
}

// TestHandleMessage_toolsList runs the JSON-RPC handshake against the
// underlying MCP server and checks that all tools are advertised.
func TestHandleMessage_toolsList(t *testing.T) {
	srv := New()
	schemas := listTools(t, srv)
	assert.Len(t, schemas, 7)
	require.Contains(t, schemas, "chim_create_change")
	props, ok := schemas["chim_create_change"]["properties"].(map[string]any)
	require.True(t, ok, "properties")
	assert.Contains(t, props, "payload")
	assert.Contains(t, props, "dry_run")
	assert.Contains(t, schemas["chim_create_change"]["required"], "payload")
}

// listTools performs the initialize handshake followed by tools/list and
// returns the input schemas of the advertised tools keyed by name.
func listTools(t *testing.T, srv *Server) map[string]map[string]any {
	t.Helper()
	ctx := t.Context()

	initMsg := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	resp := srv.mcp.HandleMessage(ctx, json.RawMessage(initMsg))
	require.NotNil(t, resp)

	resp = srv.mcp.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var got struct {
		Result struct {
			Tools []struct {
				Name        string         `json:"name"`
				InputSchema map[string]any `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	schemas := make(map[string]map[string]any, len(got.Result.Tools))
	for _, tool := range got.Result.Tools {
		schemas[tool.Name] = tool.InputSchema
	}
	return schemas
}

func TestServeStdio_eof(t *testing.T) {
	srv := New()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	errC := make(chan error, 1)
	go func() {
		errC <- srv.serveStdio(ctx, strings.NewReader(""), io.Discard)
	}()
	// whichever comes first, EOF or cancellation, the server must exit cleanly.
	cancel()
	assert.NoError(t, <-errC)
}

func TestServeHTTP_shutdown(t *testing.T) {
	srv := New()
	ctx, cancel := context.WithCancel(t.Context())
	errC := make(chan error, 1)
	go func() {
		errC <- srv.ServeHTTP(ctx, "127.0.0.1:0")
	}()
	cancel()
	assert.NoError(t, <-errC)
}

// ─── result helpers ───────────────────────────────────────────────────────────

func TestResultText(t *testing.T) {
	r := resultText("hello")
	require.NotNil(t, r)
	assert.False(t, r.IsError)
	require.Len(t, r.Content, 1)
	tc, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, "hello", tc.Text)
}

func TestResultErr(t *testing.T) {
	r := resultErr(errors.New("boom"))
	require.NotNil(t, r)
	assert.True(t, r.IsError)
	require.Len(t, r.Content, 1)
	tc, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", tc.Text)
}

func TestResultJSON(t *testing.T) {
	r, err := resultJSON(map[string]any{"saved": true})
	require.NoError(t, err)
	require.Len(t, r.Content, 1)
	tc, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, "{\n  \"saved\": true\n}", tc.Text)

	_, err = resultJSON(make(chan int))
	assert.Error(t, err)
}
