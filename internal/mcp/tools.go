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

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/chim-mcp/internal/chim"
	"github.com/rusq/chim-mcp/internal/config"
)

// API endpoints.
const (
	pathStatus  = "/api/status/"
	pathChanges = "/api/v1/changes/"
	pathOutages = "/api/v1/outages/"
	pathRetros  = "/api/v1/retros/"
)

// ─── chim_save_api_key ────────────────────────────────────────────────────────

func (s *Server) toolSaveAPIKey() mcpsrv.ServerTool {
	tool := mcplib.NewTool("chim_save_api_key",
		mcplib.WithDescription("Stores the CHIM API key in the user config file (~/.config/chim-mcp/config.json)."),
		mcplib.WithString("api_key",
			mcplib.Description("CHIM API key to store locally."),
			mcplib.MinLength(1),
			mcplib.Required(),
		),
		mcplib.WithString("base_url",
			mcplib.Description("Optional override for the CHIM API base URL."),
			mcplib.MinLength(1),
		),
		mcplib.WithString("user_agent",
			mcplib.Description("Optional override for the User-Agent header."),
			mcplib.MinLength(1),
		),
		mcplib.WithDestructiveHintAnnotation(false),
		mcplib.WithOpenWorldHintAnnotation(false),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSaveAPIKey}
}

// saveResult is the response of chim_save_api_key.
type saveResult struct {
	Saved bool   `json:"saved"`
	Path  string `json:"path"`
	Note  string `json:"note,omitempty"`
}

func (s *Server) handleSaveAPIKey(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.store == nil {
		return resultErr(errNoStore), nil
	}
	var args saveKeyArgs
	if err := bindArgs(req, &args); err != nil {
		return resultErr(fmt.Errorf("chim_save_api_key: %w", err)), nil
	}

	if err := s.store.Save(config.Stored{
		APIKey:    args.APIKey,
		BaseURL:   args.BaseURL,
		UserAgent: args.UserAgent,
	}); err != nil {
		return resultErr(fmt.Errorf("chim_save_api_key: %w", err)), nil
	}
	s.logger.InfoContext(ctx, "mcp: chim_save_api_key: configuration saved", "path", s.store.Path())

	result, err := resultJSON(saveResult{
		Saved: true,
		Path:  s.store.Path(),
		Note:  "Restart the MCP server to use the new settings.",
	})
	if err != nil {
		return resultErr(fmt.Errorf("chim_save_api_key: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── chim_get_change_freeze_status ────────────────────────────────────────────

func (s *Server) toolGetChangeFreezeStatus() mcpsrv.ServerTool {
	tool := mcplib.NewTool("chim_get_change_freeze_status",
		mcplib.WithDescription("Returns the change-freeze status for CHIM and each product suite (GET /api/status/)."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetChangeFreezeStatus}
}

func (s *Server) handleGetChangeFreezeStatus(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.call(ctx, "chim_get_change_freeze_status", chim.RequestOptions{
		Path:   pathStatus,
		Method: http.MethodGet,
		NoAuth: true,
	}), nil
}

// ─── list tools ───────────────────────────────────────────────────────────────

// listTool returns a paginated list tool for the endpoint path.
func (s *Server) listTool(name, description, path string) mcpsrv.ServerTool {
	tool := mcplib.NewTool(name,
		mcplib.WithDescription(description),
		mcplib.WithNumber("page",
			mcplib.Description("Page number to fetch (1-based)."),
			mcplib.Min(1),
		),
		mcplib.WithNumber("page_size",
			mcplib.Description("Number of records to fetch per page (1-100)."),
			mcplib.Min(1),
			mcplib.Max(100),
		),
		mcplib.WithString("search",
			mcplib.Description("Search keyword supported by the CHIM API."),
			mcplib.MinLength(1),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.listHandler(name, path)}
}

func (s *Server) listHandler(name, path string) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		var args listArgs
		if err := bindArgs(req, &args); err != nil {
			return resultErr(fmt.Errorf("%s: %w", name, err)), nil
		}
		return s.call(ctx, name, chim.RequestOptions{
			Path: path,
			Query: chim.Query{
				"page":      args.Page,
				"page_size": args.PageSize,
				"search":    args.Search,
			},
		}), nil
	}
}

func (s *Server) toolListChanges() mcpsrv.ServerTool {
	return s.listTool("chim_list_changes",
		"Lists change notifications (GET /api/v1/changes/). Supports pagination query params.",
		pathChanges)
}

func (s *Server) toolListOutages() mcpsrv.ServerTool {
	return s.listTool("chim_list_outages",
		"Lists incident/outage notifications (GET /api/v1/outages/). Supports pagination query params.",
		pathOutages)
}

func (s *Server) toolListRetros() mcpsrv.ServerTool {
	return s.listTool("chim_list_retros",
		"Lists retrospectives created in CHIM (GET /api/v1/retros/). Supports pagination query params.",
		pathRetros)
}

// ─── create tools ─────────────────────────────────────────────────────────────

// payloadSchema is the schema of the payload argument: either an object or a
// string with JSON.
var payloadSchema = map[string]any{
	"description": "Payload you want to send to CHIM.",
	"anyOf": []any{
		map[string]any{
			"type":        "string",
			"description": "JSON string payload that matches the CHIM API schema for the relevant endpoint.",
		},
		map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{},
			"description":          "Object payload that matches the CHIM API schema for the relevant endpoint.",
		},
	},
}

// createTool returns a tool that POSTs the payload to the endpoint path.
func (s *Server) createTool(name, description, path string) mcpsrv.ServerTool {
	tool := mcplib.NewTool(name,
		mcplib.WithDescription(description),
		mcplib.WithBoolean("dry_run",
			mcplib.Description("Skip sending the request and only validate that the payload is valid JSON."),
		),
		mcplib.WithDestructiveHintAnnotation(false),
		mcplib.WithIdempotentHintAnnotation(false),
	)
	tool.InputSchema.Properties["payload"] = payloadSchema
	tool.InputSchema.Required = append(tool.InputSchema.Required, "payload")
	return mcpsrv.ServerTool{Tool: tool, Handler: s.createHandler(name, path)}
}

// dryRunResult is returned by the create tools in dry run mode.
type dryRunResult struct {
	DryRun  bool            `json:"dryRun"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) createHandler(name, path string) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		var args createArgs
		if err := bindArgs(req, &args); err != nil {
			return resultErr(fmt.Errorf("%s: %w", name, err)), nil
		}
		payload, err := args.Payload.Normalize()
		if err != nil {
			return resultErr(fmt.Errorf("%s: %w", name, err)), nil
		}
		if args.DryRun {
			s.logger.DebugContext(ctx, "mcp: dry run", "tool", name)
			result, err := resultJSON(dryRunResult{DryRun: true, Payload: payload})
			if err != nil {
				return resultErr(fmt.Errorf("%s: serialise: %w", name, err)), nil
			}
			return result, nil
		}
		return s.call(ctx, name, chim.RequestOptions{
			Path:   path,
			Method: http.MethodPost,
			Body:   payload,
		}), nil
	}
}

func (s *Server) toolCreateChange() mcpsrv.ServerTool {
	return s.createTool("chim_create_change",
		"Creates a Change notification (POST /api/v1/changes/). Provide the payload documented in the CHIM API guide.",
		pathChanges)
}

func (s *Server) toolCreateOutage() mcpsrv.ServerTool {
	return s.createTool("chim_create_outage",
		"Creates an Incident/Outage notification (POST /api/v1/outages/). Provide the payload documented in the CHIM API guide.",
		pathOutages)
}

// call performs the API request and converts the response into a tool
// result.
func (s *Server) call(ctx context.Context, name string, opts chim.RequestOptions) *mcplib.CallToolResult {
	if s.client == nil {
		return resultErr(errNoClient)
	}
	res, err := s.client.Request(ctx, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "mcp: api request failed", "tool", name, "error", err)
		return resultErr(fmt.Errorf("%s: %w", name, err))
	}
	s.logger.DebugContext(ctx, "mcp: api request", "tool", name, "result", res.Kind)
	return resultAPI(res)
}
