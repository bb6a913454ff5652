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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindArgs(t *testing.T) {
	t.Run("nil arguments", func(t *testing.T) {
		var args listArgs
		require.NoError(t, bindArgs(toolReq(nil), &args))
		assert.Nil(t, args.Page)
		assert.Nil(t, args.PageSize)
		assert.Nil(t, args.Search)
	})
	t.Run("unknown arguments are ignored", func(t *testing.T) {
		var args listArgs
		require.NoError(t, bindArgs(toolReq(map[string]any{"foo": "bar", "page": float64(3)}), &args))
		require.NotNil(t, args.Page)
		assert.Equal(t, 3, *args.Page)
	})
	t.Run("wrong type", func(t *testing.T) {
		var args listArgs
		err := bindArgs(toolReq(map[string]any{"search": 12}), &args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")
	})
	t.Run("several violations are joined", func(t *testing.T) {
		var args listArgs
		err := bindArgs(toolReq(map[string]any{"page": float64(0), "page_size": float64(0)}), &args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page must be at least 1")
		assert.Contains(t, err.Error(), "page_size must be at least 1")
		assert.Contains(t, err.Error(), "; ")
	})
}

func TestListArgs_bounds(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"page 1", map[string]any{"page": float64(1)}, false},
		{"page_size 1", map[string]any{"page_size": float64(1)}, false},
		{"page_size 100", map[string]any{"page_size": float64(100)}, false},
		{"page_size 101", map[string]any{"page_size": float64(101)}, true},
		{"page -1", map[string]any{"page": float64(-1)}, true},
		{"search", map[string]any{"search": "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args listArgs
			err := bindArgs(toolReq(tt.args), &args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveKeyArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{"key only", map[string]any{"api_key": "k"}, ""},
		{"with url", map[string]any{"api_key": "k", "base_url": "http://localhost:8080"}, ""},
		{"empty key", map[string]any{"api_key": ""}, "api_key is required"},
		{"bad url", map[string]any{"api_key": "k", "base_url": "chim"}, "base_url must be a valid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args saveKeyArgs
			err := bindArgs(toolReq(tt.args), &args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFieldMessage_translated(t *testing.T) {
	var args struct {
		Mode string `json:"mode" validate:"oneof=summary full"`
	}
	err := bindArgs(toolReq(map[string]any{"mode": "raw"}), &args)
	require.Error(t, err)
	assert.Equal(t, "invalid arguments: mode must be one of [summary full]", err.Error())
}
