package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInFlight is returned by Submit while a previous attempt is still submitting.
var ErrInFlight = errors.New("submission already in flight")

// Recorder persists finished attempts.
type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the toast presenter.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithRecorder persists every attempt that reaches Succeeded or Failed.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithMessages overrides the toast texts.
func WithMessages(m Messages) Option {
	return func(c *Controller) { c.messages = m }
}

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the state of one form instance: its field set, the
// current attempt and the disabled state of the submit control.
type Controller struct {
	schema   Schema
	delivery Delivery
	notifier Notifier
	recorder Recorder
	messages Messages
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	fields  Fields
	current *Attempt // non-nil only while validating or submitting
	last    *Attempt
}

// NewController builds a controller for schema that hands valid submissions to d.
func NewController(schema Schema, d Delivery, opts ...Option) *Controller {
	c := &Controller{
		schema:   schema,
		delivery: d,
		messages: ContactMessages,
		logger:   slog.Default(),
		now:      time.Now,
		fields:   Fields{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("form", schema.Form)
	return c
}

// Schema returns the form schema.
func (c *Controller) Schema() Schema { return c.schema }

// SetField updates one input.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields[name] = value
}

// Fields returns a copy of the current field set.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Clone()
}

// Blur re-validates one field, as when the input loses focus.
func (c *Controller) Blur(name string) FieldResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ValidateField(c.schema, c.fields, name)
}

// Busy reports whether the submit control is disabled.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyLocked()
}

func (c *Controller) busyLocked() bool {
	return c.current != nil && c.current.Status == StatusSubmitting
}

// Status is the status of the in-flight attempt, else of the last one, else Idle.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.current != nil:
		return c.current.Status
	case c.last != nil:
		return c.last.Status
	default:
		return StatusIdle
	}
}

// Last returns the most recently finished attempt.
func (c *Controller) Last() (Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Attempt{}, false
	}
	return c.last.clone(), true
}

// Submit starts a new attempt over the current field set.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	return c.submit(ctx, nil)
}

// SubmitFields replaces the field set and submits it in one step. The
// replacement is refused together with the submit while another attempt is in flight.
func (c *Controller) SubmitFields(ctx context.Context, f Fields) (Outcome, error) {
	if f == nil {
		f = Fields{}
	}
	return c.submit(ctx, f)
}

func (c *Controller) submit(ctx context.Context, replace Fields) (Outcome, error) {
	c.mu.Lock()
	if c.busyLocked() {
		inFlight := c.current.clone()
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "submit refused", "token", inFlight.Token)
		return Outcome{Kind: OutcomeBusy, Attempt: inFlight}, ErrInFlight
	}
	if replace != nil {
		c.fields = replace.Clone()
	}

	a := &Attempt{
		Token:     uuid.NewString(),
		Form:      c.schema.Form,
		Fields:    c.fields.Trimmed(),
		Status:    StatusIdle,
		StartedAt: c.now().UTC(),
	}
	c.current = a
	c.advance(ctx, a, StatusValidating)
	a.Validity = Validate(c.schema, a.Fields)

	if !a.Validity.OK() {
		c.advance(ctx, a, StatusIdle)
		a.FinishedAt = c.now().UTC()
		c.finishLocked(a)
		snapshot := a.clone()
		c.mu.Unlock()

		t := c.notify(Toast{Kind: ToastError, Message: c.messages.Rejected, TTL: ToastTTL})
		return Outcome{Kind: OutcomeRejected, Attempt: snapshot, Reasons: snapshot.Validity.Reasons(), Toast: t}, nil
	}

	c.advance(ctx, a, StatusSubmitting)
	sub := Submission{Token: a.Token, Form: a.Form, Fields: a.Fields.Clone()}
	c.mu.Unlock()

	ack, err := c.delivery.Deliver(ctx, sub)

	// Submit refuses while a is submitting, so a is still current here.
	c.mu.Lock()
	out := Outcome{Ack: ack, Err: err}
	if err != nil {
		c.advance(ctx, a, StatusFailed)
		a.ErrorReason = c.messages.Failure
		out.Kind = OutcomeFailed
	} else {
		c.advance(ctx, a, StatusSucceeded)
		a.Ack = ack
		c.fields = Fields{}
		out.Kind = OutcomeSucceeded
	}
	a.FinishedAt = c.now().UTC()
	c.finishLocked(a)
	out.Attempt = a.clone()
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "submission failed", "token", a.Token, "error", err)
		out.Toast = c.notify(Toast{Kind: ToastError, Message: c.messages.Failure, TTL: ToastTTL})
	} else {
		c.logger.InfoContext(ctx, "submission succeeded", "token", a.Token)
		out.Toast = c.notify(Toast{Kind: ToastSuccess, Message: c.messages.Success, TTL: ToastTTL})
	}
	if c.recorder != nil {
		if rerr := c.recorder.RecordAttempt(ctx, out.Attempt); rerr != nil {
			c.logger.ErrorContext(ctx, "recording attempt", "token", a.Token, "error", rerr)
		}
	}
	return out, nil
}

// advance must be called with mu held.
func (c *Controller) advance(ctx context.Context, a *Attempt, to Status) {
	next, err := Transition(a.Status, to)
	if err != nil {
		c.logger.ErrorContext(ctx, "status transition", "token", a.Token, "error", err)
		return
	}
	c.logger.DebugContext(ctx, "status", "token", a.Token, "from", a.Status, "to", next)
	a.Status = next
}

func (c *Controller) finishLocked(a *Attempt) {
	c.current = nil
	c.last = a
}

func (c *Controller) notify(t Toast) *Toast {
	if c.notifier != nil {
		c.notifier.Notify(t)
	}
	return &t
}
