package form

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Defaults for the mailto variant.
const (
	DefaultAddress   = "zubin.qayam@outlook.com"
	DefaultSignature = "Sent via Zubin Qayam's Professional Portfolio"
)

// MailtoDelivery hands the submission to the visitor's mail client. There is
// no confirmation channel: it always acknowledges.
type MailtoDelivery struct {
	Address   string
	Signature string
	// Open navigates to the link. Its error is logged and otherwise ignored.
	Open func(uri string) error
}

func (m *MailtoDelivery) Deliver(ctx context.Context, sub Submission) (Ack, error) {
	uri := BuildMailto(m.address(), sub.Fields, m.signature())
	if m.Open != nil {
		if err := m.Open(uri); err != nil {
			slog.WarnContext(ctx, "mail client did not open", "token", sub.Token, "error", err)
		}
	}
	return Ack{Ref: sub.Token, URI: uri, At: time.Now().UTC()}, nil
}

func (m *MailtoDelivery) address() string {
	if m.Address == "" {
		return DefaultAddress
	}
	return m.Address
}

func (m *MailtoDelivery) signature() string {
	if m.Signature == "" {
		return DefaultSignature
	}
	return m.Signature
}

// Subject is the mail subject for a contact submission.
func Subject(f Fields) string {
	subject := "Portfolio Inquiry from " + f.Get(FieldName)
	if company := f.Get(FieldCompany); company != "" {
		subject += " - " + company
	}
	return subject
}

// Body is the plain-text mail body for a contact submission.
func Body(f Fields, signature string) string {
	var b strings.Builder
	b.WriteString("Name: " + f.Get(FieldName) + "\n")
	b.WriteString("Email: " + f.Get(FieldEmail))
	if company := f.Get(FieldCompany); company != "" {
		b.WriteString("\nCompany: " + company)
	}
	b.WriteString("\nMessage: " + f.Get(FieldMessage) + "\n\n---\n")
	b.WriteString(signature)
	return b.String()
}

// BuildMailto returns mailto:<address>?subject=...&body=... with both
// parameters percent-encoded the way browsers encode URI components.
func BuildMailto(address string, f Fields, signature string) string {
	return "mailto:" + address +
		"?subject=" + EncodeComponent(Subject(f)) +
		"&body=" + EncodeComponent(Body(f, signature))
}

// EncodeComponent percent-encodes s, spaces included as %20.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseMailto splits a mailto link built by BuildMailto back into its parts.
func ParseMailto(uri string) (address, subject, body string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", "", err
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", "", "", err
	}
	return u.Opaque, q.Get("subject"), q.Get("body"), nil
}
