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

// In this file: tool argument binding and validation.

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// validate validates tool arguments.  Field names in errors are the JSON
// argument names.  trans renders messages for the tags that fieldMessage
// does not know.
var validate, trans = newValidator()

func newValidator() (*validator.Validate, ut.Translator) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator(loc.Locale())
	if err := entrans.RegisterDefaultTranslations(v, tr); err != nil {
		panic(err)
	}
	return v, tr
}

// bindArgs decodes the tool call arguments into v and validates the result.
// v must be a pointer to a struct.
func bindArgs(req mcplib.CallToolRequest, v any) error {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors into a readable error.
func validationError(err error) error {
	var vErr validator.ValidationErrors
	if !errors.As(err, &vErr) {
		return err
	}
	msgs := make([]string, 0, len(vErr))
	for _, fe := range vErr {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Translate(trans)
	}
}

// listArgs are the arguments of the list tools.
type listArgs struct {
	Page     *int    `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize *int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
	Search   *string `json:"search,omitempty" validate:"omitempty,min=1"`
}

// saveKeyArgs are the arguments of chim_save_api_key.
type saveKeyArgs struct {
	APIKey    string `json:"api_key" validate:"required"`
	BaseURL   string `json:"base_url,omitempty" validate:"omitempty,url"`
	UserAgent string `json:"user_agent,omitempty"`
}

// createArgs are the arguments of the create tools.
type createArgs struct {
	Payload *Payload `json:"payload" validate:"required"`
	DryRun  bool     `json:"dry_run,omitempty"`
}
