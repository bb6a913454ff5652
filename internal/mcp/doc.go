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

// Package mcp implements a Model Context Protocol (MCP) server for the CHIM
// API.  It exposes change notifications, outages, retrospectives and the
// change-freeze status as MCP tools that AI agents can call.
//
// Every tool call results in at most one CHIM API request.  The create tools
// support a dry run mode that only validates the payload.
//
// Transport: the server supports two transports selectable at runtime:
//   - stdio  – standard MCP stdio transport (default); suitable for hosts
//     that start the server as a subprocess.
//   - http   – Streamable HTTP transport served at /mcp; suitable for remote
//     agents or when multiple concurrent clients are needed.
package mcp
