// Package validation checks user input locally, before anything is sent to
// the remote API. Failures are attributed to fields and reported in the order
// the form shows them.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors struct {
	Errors []FieldError `json:"errors"`
}

func (e *Errors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// First is the error shown to the user: the first invalid field in form order.
func (e *Errors) First() FieldError {
	if len(e.Errors) == 0 {
		return FieldError{}
	}
	return e.Errors[0]
}

func IsValidationError(err error) bool {
	var ve *Errors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *Errors {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Rule attributes schema failures of one field to a user message.
type Rule struct {
	Field   string
	Blank   string // Shown when the field is empty
	Invalid string // Shown when the field is filled but wrong; defaults to Blank
}

// Validator checks documents against one compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
	rules  []Rule
}

// NewValidator compiles schema. Rules list the fields in form order.
func NewValidator(schema map[string]interface{}, rules []Rule) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled, rules: rules}, nil
}

func mustValidator(schema map[string]interface{}, rules []Rule) *Validator {
	v, err := NewValidator(schema, rules)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks doc (any value that encodes to a JSON object). It returns
// *Errors when doc is invalid.
func (v *Validator) Validate(doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("document is not an object: %w", err)
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(values))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	failed := make(map[string]bool)
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if p, ok := desc.Details()["property"].(string); ok {
				field = p
			}
		}
		failed[field] = true
	}

	out := &Errors{}
	for _, rule := range v.rules {
		if !failed[rule.Field] {
			continue
		}
		msg := rule.Blank
		if !isBlank(values[rule.Field]) && rule.Invalid != "" {
			msg = rule.Invalid
		}
		out.Errors = append(out.Errors, FieldError{Field: rule.Field, Message: msg})
	}
	if len(out.Errors) == 0 {
		// Only conditional wrappers failed; report them as they are.
		for _, desc := range result.Errors() {
			out.Errors = append(out.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
		}
	}
	return out
}

// Merge combines validation results of several parts of one form, keeping
// their order. Non-validation errors are returned as they are.
func Merge(errs ...error) error {
	out := &Errors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		ve := GetValidationErrors(err)
		if ve == nil {
			return err
		}
		out.Errors = append(out.Errors, ve.Errors...)
	}
	if len(out.Errors) == 0 {
		return nil
	}
	return out
}

func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
