// Package form implements the contact and newsletter form workflow: field
// validation, the submission status machine and the delivery collaborators
// a submission is handed to.
package form

import "strings"

// Canonical field names shared by the contact and newsletter forms.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldCompany = "company"
	FieldMessage = "message"
)

// MaxMessageRunes bounds long-text fields.
const MaxMessageRunes = 5000

// Fields maps a field name to the raw text the visitor typed.
type Fields map[string]string

// Get returns the value of a field, or "" when absent.
func (f Fields) Get(name string) string {
	return f[name]
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Trimmed returns a copy with surrounding whitespace removed from every value.
func (f Fields) Trimmed() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Kind selects the extra checks a field gets beyond the required check.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindLong
)

// FieldSpec describes one input of a form.
type FieldSpec struct {
	Name     string
	Label    string
	Required bool
	Kind     Kind
}

// Schema is the ordered list of inputs of a form.
type Schema struct {
	Form   string
	Fields []FieldSpec
}

// Lookup returns the spec for a field name.
func (s Schema) Lookup(name string) (FieldSpec, bool) {
	for _, fs := range s.Fields {
		if fs.Name == name {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, fs := range s.Fields {
		names = append(names, fs.Name)
	}
	return names
}

// ContactSchema is the portfolio contact form.
var ContactSchema = Schema{
	Form: "contact",
	Fields: []FieldSpec{
		{Name: FieldName, Label: "Name", Required: true, Kind: KindText},
		{Name: FieldEmail, Label: "Email", Required: true, Kind: KindEmail},
		{Name: FieldCompany, Label: "Company", Kind: KindText},
		{Name: FieldMessage, Label: "Message", Required: true, Kind: KindLong},
	},
}

// NewsletterSchema is the single-input newsletter signup.
var NewsletterSchema = Schema{
	Form: "newsletter",
	Fields: []FieldSpec{
		{Name: FieldEmail, Label: "Email", Required: true, Kind: KindEmail},
	},
}
