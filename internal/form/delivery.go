package form

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// ErrTransient is the failure a delivery reports when a retry by the visitor may succeed.
var ErrTransient = errors.New("transient delivery failure")

// Submission is what a Delivery receives: a validated, trimmed field set.
type Submission struct {
	Token  string
	Form   string
	Fields Fields
}

// Ack is a delivery acknowledgement.
type Ack struct {
	Ref string    `json:"ref,omitempty"`
	URI string    `json:"uri,omitempty"`
	At  time.Time `json:"at"`
}

//go:generate mockgen -destination=mock/delivery_mock.go -package=mock github.com/zubinqayam/zq-portfolio/internal/form Delivery

// Delivery hands a submission to whatever sends it on: a mail client link,
// an SMTP relay or a stand-in backend.
type Delivery interface {
	Deliver(ctx context.Context, sub Submission) (Ack, error)
}

// DeliveryFunc adapts a function to Delivery.
type DeliveryFunc func(ctx context.Context, sub Submission) (Ack, error)

func (f DeliveryFunc) Deliver(ctx context.Context, sub Submission) (Ack, error) {
	return f(ctx, sub)
}

// DeliveryObserver sees every delivery a Recording decorator passes through.
type DeliveryObserver func(ctx context.Context, sub Submission, ack Ack, err error)

// Recording wraps next so observe is called after every delivery.
func Recording(next Delivery, observe DeliveryObserver) Delivery {
	return DeliveryFunc(func(ctx context.Context, sub Submission) (Ack, error) {
		ack, err := next.Deliver(ctx, sub)
		observe(ctx, sub, ack, err)
		return ack, err
	})
}

// LogDeliveries returns an observer that logs each payload.
func LogDeliveries(logger *slog.Logger) DeliveryObserver {
	return func(ctx context.Context, sub Submission, ack Ack, err error) {
		if err != nil {
			logger.WarnContext(ctx, "delivery failed", "form", sub.Form, "token", sub.Token, "error", err)
			return
		}
		fields := make([]any, 0, len(sub.Fields))
		for _, name := range slices.Sorted(maps.Keys(sub.Fields)) {
			fields = append(fields, slog.String(name, sub.Fields[name]))
		}
		logger.InfoContext(ctx, "delivered", "form", sub.Form, "token", sub.Token,
			slog.Group("fields", fields...), "ref", ack.Ref)
	}
}
