package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xy-planning-network/wayfarer"
)

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

// Message describes the rule broken in terms a person filling out a form understands.
func (ve ValidationError) Message() string {
	rule, _, _ := strings.Cut(ve.Rule, ";")
	tag, param, _ := strings.Cut(rule, "=")
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "eqfield":
		return "must match"
	case "datetime":
		return "must be a date like 2006-01-02"
	case "after":
		return "must not be before " + param
	}

	if strings.HasPrefix(ve.Rule, "must be ") {
		return ve.Rule
	}

	return "is not valid"
}

// ValidationErrors is a set of ValidationError.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msg := fmt.Sprintf("field=%q rule=%q got=%q", err.Field, err.Rule, fmt.Sprint(err.Got))
		msgs = append(msgs, msg)
	}

	return strings.Join(msgs, "\n")
}

// Fields maps each field to the Message of its first ValidationError,
// for rendering next to form inputs.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := fields[err.Field]; !ok {
			fields[err.Field] = err.Message()
		}
	}

	return fields
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var errs struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}

	errs.E = append(errs.E, v...)
	return json.Marshal(errs)
}

func (ValidationErrors) Unwrap() error { return wayfarer.ErrNotValid }
