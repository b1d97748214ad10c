package form

import (
	"log/slog"
	"time"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 3 * time.Second

// ToastKind selects the toast styling.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient outcome message.
type Toast struct {
	Kind    ToastKind     `json:"kind"`
	Message string        `json:"message"`
	TTL     time.Duration `json:"-"`
}

// Notifier presents toasts.
type Notifier interface {
	Notify(t Toast)
}

// LogNotifier writes every toast to Logger at DEBUG.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(t Toast) {
	l := n.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Debug("toast", "kind", t.Kind, "text", t.Message)
}

// Messages are the toast texts a controller shows.
type Messages struct {
	Success  string
	Failure  string
	Rejected string
}

var (
	ContactMessages = Messages{
		Success:  "Message sent successfully!",
		Failure:  "Failed to send message. Please try again.",
		Rejected: "Please correct the errors below.",
	}
	MailtoMessages = Messages{
		Success:  "Thank you for your message! Your email client should now open with the pre-filled message.",
		Failure:  "There was an issue opening your email client. Please contact " + DefaultAddress + " directly.",
		Rejected: "Please correct the errors below.",
	}
	NewsletterMessages = Messages{
		Success:  "Successfully subscribed to newsletter!",
		Failure:  "Failed to subscribe. Please try again.",
		Rejected: ReasonInvalidEmail,
	}
)
