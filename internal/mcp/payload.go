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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when the payload can not be parsed.
var ErrInvalidPayload = errors.New("unable to parse payload JSON")

// Payload is the body of a create request.  The caller may supply it either
// as a JSON object or as a string holding a JSON document.  Use Normalize to
// get the document.
type Payload struct {
	doc    json.RawMessage // set if the payload is an object
	text   string          // set if the payload is a string
	isText bool
}

// ObjectPayload returns the Payload for the JSON object doc.
func ObjectPayload(doc json.RawMessage) *Payload {
	return &Payload{doc: doc}
}

// TextPayload returns the Payload for the string s.
func TextPayload(s string) *Payload {
	return &Payload{text: s, isText: true}
}

// UnmarshalJSON accepts a JSON object or a JSON string.
func (p *Payload) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("payload: empty value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("payload: %w", err)
		}
		*p = *TextPayload(s)
	case '{':
		*p = *ObjectPayload(append(json.RawMessage(nil), b...))
	default:
		return errors.New("payload must be a JSON object or a string containing JSON")
	}
	return nil
}

// Normalize returns the JSON document of the payload.  A string payload must
// contain valid JSON, otherwise an error wrapping ErrInvalidPayload and the
// parse error is returned.
func (p *Payload) Normalize() (json.RawMessage, error) {
	if !p.isText {
		if p.doc == nil {
			return nil, fmt.Errorf("%w: payload is empty", ErrInvalidPayload)
		}
		return p.doc, nil
	}
	var v any
	if err := json.Unmarshal([]byte(p.text), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return json.RawMessage(bytes.TrimSpace([]byte(p.text))), nil
}
