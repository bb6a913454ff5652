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

package chim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string // status text, i.e. "Not Found"
	Body       string // raw response body
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	// resp.Status is "404 Not Found", we need only the text.
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     text,
		Body:       string(body),
	}
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("CHIM API request failed (%d %s)", e.StatusCode, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// ResultKind is the kind of the response body.
//
//go:generate stringer -type=ResultKind -trimprefix=Result
type ResultKind uint8

const (
	// ResultEmpty is an empty response body.
	ResultEmpty ResultKind = iota
	// ResultJSON is a valid JSON document.
	ResultJSON
	// ResultText is a response body that is not valid JSON.  It is returned
	// verbatim.
	ResultText
	// ResultString is a JSON document that consists of a single string
	// literal, i.e. "frozen".  It is displayed unquoted.
	ResultString
)

// Result is the body of a successful response.
type Result struct {
	Kind ResultKind
	// Raw is the response body as received.
	Raw []byte
}

func newResult(raw []byte) Result {
	switch {
	case len(raw) == 0:
		return Result{Kind: ResultEmpty}
	case json.Valid(raw):
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte{'"'}) {
			return Result{Kind: ResultString, Raw: raw}
		}
		return Result{Kind: ResultJSON, Raw: raw}
	default:
		return Result{Kind: ResultText, Raw: raw}
	}
}

// Decode unmarshals the JSON result into v.  It returns an error if the
// result is not JSON.
func (r Result) Decode(v any) error {
	if r.Kind != ResultJSON && r.Kind != ResultString {
		return fmt.Errorf("result is %s, not JSON", r.Kind)
	}
	return json.Unmarshal(r.Raw, v)
}

// Indent returns the result for display: JSON is indented with two spaces,
// preserving the key order, a JSON string is unquoted, text is returned as
// is, and an empty result returns an empty string.
func (r Result) Indent() string {
	switch r.Kind {
	case ResultJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
			return string(r.Raw)
		}
		return buf.String()
	case ResultString:
		var s string
		if err := r.Decode(&s); err != nil {
			return string(r.Raw)
		}
		return s
	case ResultText:
		return string(r.Raw)
	default:
		return ""
	}
}
