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

// Package chim is a client for the CHIM REST API.
//
// Every call to [Client.Request] results in at most one HTTP request; there
// are no retries, no rate limiting and no pagination.  Timeouts and
// cancellation come from the context and the underlying [http.Client].
package chim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/rusq/chim-mcp/internal/config"
)

// ErrUnsupportedMethod is returned for HTTP methods the API does not use.
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPatch,
	http.MethodPut,
	http.MethodDelete,
}

// Query holds the URL query parameters.  Nil values and nil pointers are
// omitted; all other values are formatted with fmt.
type Query map[string]any

// RequestOptions describe a single API request.
type RequestOptions struct {
	// Path is the endpoint path, i.e. "/api/v1/changes/".
	Path string
	// Method is one of GET, POST, PATCH, PUT, DELETE.  Empty means GET.
	Method string
	// Query parameters are set on the URL, replacing any parameters with the
	// same name that are present in Path.
	Query Query
	// Body, if not nil, is sent as application/json.  Strings, []byte and
	// json.RawMessage are sent as is, other values are JSON-encoded.
	Body any
	// NoAuth disables the Authorization header.  By default every request
	// requires the API key.
	NoAuth bool
}

// Client is the CHIM API client.  It is safe for concurrent use.
type Client struct {
	baseURL string
	cfg     config.Config
	cl      *http.Client
	lg      *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.  Nil is ignored.
func WithHTTPClient(cl *http.Client) Option {
	return func(c *Client) {
		if cl != nil {
			c.cl = cl
		}
	}
}

// WithLogger sets the logger.  Nil is ignored.
func WithLogger(lg *slog.Logger) Option {
	return func(c *Client) {
		if lg != nil {
			c.lg = lg
		}
	}
}

// New creates a new Client for the given configuration.
func New(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		cfg:     cfg,
		cl:      http.DefaultClient,
		lg:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs the request described by opts and returns the response
// body.  Authentication and validation errors are returned before any
// network activity.  A non-2xx response results in an *APIError.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (Result, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !slices.Contains(allowedMethods, method) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, opts.Method)
	}

	var apiKey string
	if !opts.NoAuth {
		var err error
		apiKey, err = config.EnsureAPIKey(c.cfg)
		if err != nil {
			return Result{}, fmt.Errorf("an API key is required for %s %s: %w", method, opts.Path, err)
		}
	}

	u, err := c.buildURL(opts.Path, opts.Query)
	if err != nil {
		return Result{}, err
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return Result{}, err
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if !opts.NoAuth {
		req.Header.Set("Authorization", "Api-Key "+apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.lg.DebugContext(ctx, "chim: request", "method", method, "path", u.Path, "query", u.RawQuery)
	resp, err := c.cl.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: read response: %w", method, u.Path, err)
	}
	c.lg.DebugContext(ctx, "chim: response", "method", method, "path", u.Path, "status", resp.StatusCode, "size", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, newAPIError(resp, raw)
	}
	return newResult(raw), nil
}

// buildURL joins the base URL and the path and sets the query parameters.
func (c *Client) buildURL(path string, q Query) (*url.URL, error) {
	path = "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("invalid request URL %q: base URL must be absolute", u)
	}
	if len(q) == 0 {
		return u, nil
	}
	values := u.Query()
	for k, v := range q {
		s, ok := queryValue(v)
		if !ok {
			continue
		}
		values.Set(k, s)
	}
	u.RawQuery = values.Encode()
	return u, nil
}

// queryValue formats v.  It returns false for nil values and nil pointers.
func queryValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		v = rv.Elem().Interface()
	}
	return fmt.Sprint(v), true
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}
