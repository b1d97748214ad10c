package view

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/zubinqayam/zq-portfolio/internal/form"
)

// TokenField is the hidden input carrying the form instance token.
const TokenField = "form_token"

// FormState is what a form fragment shows: the current values, per-field
// errors, whether the submit control is disabled, and an optional toast.
type FormState struct {
	Token  string
	Fields form.Fields
	Errors map[string]string
	Busy   bool
	Toast  *form.Toast
}

var placeholders = map[string]string{
	form.FieldName:    "Your name",
	form.FieldEmail:   "you@company.com",
	form.FieldCompany: "Company (optional)",
	form.FieldMessage: "How can I help?",
}

// ContactForm renders the contact form fragment. It replaces itself on
// submit, so the response to POST /contact is another ContactForm.
func ContactForm(s FormState) g.Node {
	return formFragment("/contact", form.ContactSchema, s, "Send Message", "Sending...")
}

// NewsletterForm renders the newsletter signup fragment.
func NewsletterForm(s FormState) g.Node {
	return formFragment("/api/newsletter", form.NewsletterSchema, s, "Subscribe", "Subscribing...")
}

// FormID is the element id of the fragment for schema.
func FormID(schema form.Schema) string { return schema.Form + "-form" }

// InputID is the element id of one input.
func InputID(schema form.Schema, field string) string { return FormID(schema) + "-" + field }

func formFragment(action string, schema form.Schema, s FormState, label, busyLabel string) g.Node {
	id := FormID(schema)
	fields := make([]g.Node, 0, len(schema.Fields))
	for _, spec := range schema.Fields {
		fields = append(fields, field(schema, spec, s))
	}

	submit := label
	if s.Busy {
		submit = busyLabel
	}

	return Form(
		ID(id),
		Class("card p-5 shadow-soft"),
		Method("post"),
		Action(action),
		g.Attr("hx-post", action),
		g.Attr("hx-swap", "outerHTML"),
		g.Attr("novalidate"),
		g.Attr("aria-label", schema.Form+" form"),
		g.Attr("aria-busy", fmt.Sprint(s.Busy)),
		Input(Type("hidden"), Name(TokenField), Value(s.Token)),
		Div(Class("grid gap-3"), g.Group(fields)),
		Button(
			Type("submit"),
			Class("btn btn-primary"),
			g.If(s.Busy, Disabled()),
			g.Text(submit),
		),
		g.Iff(s.Toast != nil, func() g.Node { return Toast(*s.Toast) }),
	)
}

func field(schema form.Schema, spec form.FieldSpec, s FormState) g.Node {
	id := InputID(schema, spec.Name)
	value := s.Fields.Get(spec.Name)
	reason, invalid := s.Errors[spec.Name]

	var input g.Node
	common := []g.Node{
		ID(id),
		Name(spec.Name),
		Class("border border-slate-200 rounded-lg px-3 py-2"),
		Placeholder(placeholders[spec.Name]),
		g.If(spec.Required, Required()),
		g.If(s.Busy, Disabled()),
		g.If(invalid, g.Attr("aria-invalid", "true")),
		g.Attr("hx-post", "/validate/"+schema.Form+"/"+spec.Name),
		g.Attr("hx-trigger", "blur"),
		g.Attr("hx-target", "#"+id+"-error"),
		g.Attr("hx-swap", "outerHTML"),
	}
	switch spec.Kind {
	case form.KindLong:
		input = Textarea(append(common, Class("min-h-[120px]"), g.Text(value))...)
	case form.KindEmail:
		input = Input(append(common, Type("email"), Value(value))...)
	default:
		input = Input(append(common, Type("text"), Value(value))...)
	}

	return Div(
		Class("form-group"),
		Label(For(id), g.Text(spec.Label)),
		input,
		FieldError(id, reason),
	)
}

// FieldError renders the error slot below an input. An empty reason renders
// an empty slot so a later blur check can swap it.
func FieldError(inputID, reason string) g.Node {
	return P(
		ID(inputID+"-error"),
		Class("form-error text-sm text-red-600"),
		g.If(reason != "", g.Attr("role", "alert")),
		g.Text(reason),
	)
}

// Toast renders a transient notification. Clients remove it after data-ttl ms.
func Toast(t form.Toast) g.Node {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = form.ToastTTL
	}
	return Div(
		Class("toast toast--"+string(t.Kind)),
		g.Attr("role", "status"),
		g.Attr("data-ttl", fmt.Sprint(ttl.Milliseconds())),
		g.Text(t.Message),
	)
}
