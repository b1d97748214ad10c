package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// ErrSMTPNotConfigured is returned when no SMTP credentials are set.
var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

// SMTPDelivery relays a contact submission through an SMTP server with the
// visitor's address as Reply-To.
type SMTPDelivery struct {
	Host      string
	Port      string
	User      string
	Pass      string
	To        string
	Signature string
	// SendMail defaults to net/smtp.SendMail.
	SendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (d *SMTPDelivery) Deliver(ctx context.Context, sub Submission) (Ack, error) {
	if d.User == "" || d.Pass == "" {
		return Ack{}, ErrSMTPNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	signature := d.Signature
	if signature == "" {
		signature = DefaultSignature
	}
	msg := []byte("To: " + d.To + "\r\n" +
		"Subject: " + headerValue(Subject(sub.Fields)) + "\r\n" +
		"From: " + d.User + "\r\n" +
		"Reply-To: " + headerValue(sub.Fields.Get(FieldEmail)) + "\r\n" +
		"\r\n" +
		Body(sub.Fields, signature) + "\r\n")

	send := d.SendMail
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", d.User, d.Pass, d.Host)
	if err := send(net.JoinHostPort(d.Host, d.Port), auth, d.User, []string{d.To}, msg); err != nil {
		slog.ErrorContext(ctx, "sending contact email", "token", sub.Token, "error", err)
		return Ack{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	slog.InfoContext(ctx, "contact email sent", "token", sub.Token, "name", sub.Fields.Get(FieldName))
	return Ack{Ref: sub.Token, At: time.Now().UTC()}, nil
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue keeps visitor text on one header line. Non-ASCII text is
// RFC 2047 encoded; plain ASCII passes through unchanged.
func headerValue(s string) string {
	return mime.QEncoding.Encode("utf-8", headerBreaks.Replace(s))
}
