// Package server exposes the portfolio pages, the contact and newsletter
// forms, analytics collection and the admin area over HTTP.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zubinqayam/zq-portfolio/internal/analytics"
	"github.com/zubinqayam/zq-portfolio/internal/config"
	"github.com/zubinqayam/zq-portfolio/internal/content"
	"github.com/zubinqayam/zq-portfolio/internal/form"
	"github.com/zubinqayam/zq-portfolio/internal/store"
)

// Server wires configuration, storage and the form controllers into a gin engine.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	tracker *analytics.Tracker
	logger  *slog.Logger
	now     func() time.Time

	profiles    map[content.Variant]*content.Profile
	contact     form.Delivery
	messages    form.Messages
	newsletter  form.Delivery
	contacts    *form.Registry
	newsletters *form.Registry

	adminToken  string
	hashingSalt string

	// background visitor writes
	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithContactDelivery replaces the delivery chosen by contact.variant.
func WithContactDelivery(d form.Delivery, m form.Messages) Option {
	return func(s *Server) {
		s.contact = d
		s.messages = m
	}
}

// WithNewsletterBackend replaces the stand-in newsletter backend. The
// subscriber is still persisted after it succeeds.
func WithNewsletterBackend(d form.Delivery) Option {
	return func(s *Server) { s.newsletter = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds a Server. The store must already be open.
func New(cfg *config.Config, st *store.Store, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		store:    st,
		logger:   slog.Default(),
		now:      time.Now,
		profiles: make(map[content.Variant]*content.Profile),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, v := range []content.Variant{content.Minimal, content.Extended} {
		p, err := content.Load(v)
		if err != nil {
			return nil, fmt.Errorf("loading %s profile: %w", v, err)
		}
		s.profiles[v] = p
	}

	if s.contact == nil {
		d, m, err := ContactDelivery(cfg)
		if err != nil {
			return nil, err
		}
		s.contact, s.messages = d, m
	}
	s.contact = form.Recording(s.contact, form.LogDeliveries(s.logger))
	if s.newsletter == nil {
		s.newsletter = &form.SimulatedBackend{Delay: cfg.Newsletter.Delay, SuccessRate: 1}
	}

	s.tracker = analytics.NewTracker(analytics.MultiSink{
		analytics.LogSink{Logger: s.logger},
		analytics.StoreSink{Store: st},
	})

	rec := storeRecorder{store: st}
	s.contacts = form.NewRegistry(func() *form.Controller {
		return form.NewController(form.ContactSchema, s.contact,
			form.WithMessages(s.messages),
			form.WithNotifier(form.LogNotifier{Logger: s.logger}),
			form.WithRecorder(rec),
			form.WithLogger(s.logger),
			form.WithClock(s.now),
		)
	}, form.DefaultRegistryTTL, form.DefaultRegistryLimit)
	s.newsletters = form.NewRegistry(func() *form.Controller {
		return form.NewController(form.NewsletterSchema, s.subscribeDelivery(),
			form.WithMessages(form.NewsletterMessages),
			form.WithNotifier(form.LogNotifier{Logger: s.logger}),
			form.WithRecorder(rec),
			form.WithLogger(s.logger),
			form.WithClock(s.now),
		)
	}, form.DefaultRegistryTTL, form.DefaultRegistryLimit)

	var err error
	if s.adminToken, err = randomToken(); err != nil {
		return nil, err
	}
	if s.hashingSalt, err = randomToken(); err != nil {
		return nil, err
	}
	return s, nil
}

// ContactDelivery returns the delivery and toast texts for contact.variant.
func ContactDelivery(cfg *config.Config) (form.Delivery, form.Messages, error) {
	switch cfg.Contact.Variant {
	case config.VariantMailto:
		return &form.MailtoDelivery{Address: cfg.Contact.Address, Signature: cfg.Contact.Signature}, form.MailtoMessages, nil
	case config.VariantSimulated:
		return &form.SimulatedBackend{Delay: cfg.Simulated.Delay, SuccessRate: cfg.Simulated.SuccessRate}, form.ContactMessages, nil
	case config.VariantSMTP:
		return &form.SMTPDelivery{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			User:      cfg.SMTP.User,
			Pass:      cfg.SMTP.Pass,
			To:        cfg.SMTP.To,
			Signature: cfg.Contact.Signature,
		}, form.ContactMessages, nil
	}
	return nil, form.Messages{}, fmt.Errorf("unknown contact variant %q", cfg.Contact.Variant)
}

// subscribeDelivery runs the newsletter backend and then stores the subscriber.
func (s *Server) subscribeDelivery() form.Delivery {
	return form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
		ack, err := s.newsletter.Deliver(ctx, sub)
		if err != nil {
			return ack, err
		}
		email := sub.Fields.Get(form.FieldEmail)
		created, err := s.store.Subscribe(ctx, email)
		if err != nil {
			return form.Ack{}, fmt.Errorf("%w: %v", form.ErrTransient, err)
		}
		s.logger.InfoContext(ctx, "newsletter subscription", "token", sub.Token, "new", created)
		return ack, nil
	})
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger), s.visitorTracking())
	s.registerRoutes(r)
	return r
}

// CleanupVisitors deletes visitor rows older than the configured retention.
func (s *Server) CleanupVisitors(ctx context.Context) (int64, error) {
	n, err := s.store.CleanupVisitors(ctx, s.now(), s.cfg.VisitorRetention())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "privacy cleanup", "deleted", n, "retention", s.cfg.VisitorRetention().String())
	}
	return n, nil
}

// Wait blocks until background visitor writes have finished.
func (s *Server) Wait() { s.wg.Wait() }

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// storeRecorder persists finished attempts as submissions.
type storeRecorder struct {
	store *store.Store
}

func (r storeRecorder) RecordAttempt(ctx context.Context, a form.Attempt) error {
	return r.store.SaveSubmission(ctx, store.Submission{
		Token:       a.Token,
		Form:        a.Form,
		Status:      a.Status.String(),
		Fields:      a.Fields,
		ErrorReason: a.ErrorReason,
		CreatedAt:   a.StartedAt,
	})
}
