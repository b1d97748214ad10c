package form

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Stand-in backend defaults.
const (
	DefaultSimulatedDelay  = 1500 * time.Millisecond
	DefaultNewsletterDelay = 1000 * time.Millisecond
	DefaultSuccessRate     = 0.9
)

// SimulatedBackend waits a fixed delay and then succeeds with probability
// SuccessRate. It stands in for a real network call and never leaves the process.
type SimulatedBackend struct {
	Delay       time.Duration
	SuccessRate float64
	// Rand returns a value in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

// NewSimulatedBackend returns a backend with the contact form defaults.
func NewSimulatedBackend() *SimulatedBackend {
	return &SimulatedBackend{Delay: DefaultSimulatedDelay, SuccessRate: DefaultSuccessRate}
}

func (b *SimulatedBackend) Deliver(ctx context.Context, sub Submission) (Ack, error) {
	if b.Delay > 0 {
		timer := time.NewTimer(b.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Ack{}, ctx.Err()
		case <-timer.C:
		}
	}

	slog.InfoContext(ctx, "simulated submission", "form", sub.Form, "token", sub.Token, "fields", sub.Fields)

	random := b.Rand
	if random == nil {
		random = rand.Float64
	}
	if random() >= b.SuccessRate {
		return Ack{}, ErrTransient
	}
	return Ack{Ref: sub.Token, At: time.Now().UTC()}, nil
}
