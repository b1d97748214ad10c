package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReasonInvalidEmail is reported for an email that fails the shape check.
const ReasonInvalidEmail = "Please enter a valid email address"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldResult is the pass/fail outcome for one field.
type FieldResult struct {
	Field  string `json:"field"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Validity holds one result per schema field, in schema order.
type Validity []FieldResult

// OK reports whether every field passed.
func (v Validity) OK() bool {
	for _, r := range v {
		if !r.OK {
			return false
		}
	}
	return true
}

// Failed returns only the failing results.
func (v Validity) Failed() []FieldResult {
	var out []FieldResult
	for _, r := range v {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

// Reasons maps each failing field to its human-readable reason.
func (v Validity) Reasons() map[string]string {
	out := make(map[string]string)
	for _, r := range v {
		if !r.OK {
			out[r.Field] = r.Reason
		}
	}
	return out
}

// Result returns the result for a field.
func (v Validity) Result(field string) (FieldResult, bool) {
	for _, r := range v {
		if r.Field == field {
			return r, true
		}
	}
	return FieldResult{}, false
}

// Validate checks every field of the schema. It has no side effects.
func Validate(schema Schema, fields Fields) Validity {
	out := make(Validity, 0, len(schema.Fields))
	for _, fs := range schema.Fields {
		out = append(out, checkField(fs, fields.Get(fs.Name)))
	}
	return out
}

// ValidateField runs the blur-time check for a single field. Unknown fields pass.
func ValidateField(schema Schema, fields Fields, name string) FieldResult {
	fs, ok := schema.Lookup(name)
	if !ok {
		return FieldResult{Field: name, OK: true}
	}
	return checkField(fs, fields.Get(name))
}

func checkField(fs FieldSpec, raw string) FieldResult {
	value := strings.TrimSpace(raw)
	res := FieldResult{Field: fs.Name, OK: true}
	switch {
	case fs.Required && value == "":
		res.OK = false
		res.Reason = fs.Label + " is required"
	case fs.Kind != KindLong && strings.ContainsFunc(value, unicode.IsControl):
		res.OK = false
		res.Reason = fs.Label + " must be a single line"
	case fs.Kind == KindEmail && value != "" && !IsValidEmail(value):
		res.OK = false
		res.Reason = ReasonInvalidEmail
	case fs.Kind == KindLong && utf8.RuneCountInString(value) > MaxMessageRunes:
		res.OK = false
		res.Reason = fmt.Sprintf("%s must be at most %d characters", fs.Label, MaxMessageRunes)
	}
	return res
}
