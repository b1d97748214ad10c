// Package analytics validates and records the named engagement and
// performance events the portfolio pages emit.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Event names.
const (
	EventScroll       = "scroll"
	EventDownload     = "download"
	EventPageLoadTime = "page_load_time"
	EventPageView     = "page_view"
)

// Categories.
const (
	CategoryEngagement  = "engagement"
	CategoryPerformance = "performance"
	CategoryNavigation  = "navigation"
)

// ErrInvalidEvent wraps every validation failure.
var ErrInvalidEvent = errors.New("invalid analytics event")

// Event is one analytics hit carrying a category/label/value triple.
type Event struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Label    string    `json:"label,omitempty"`
	Value    int64     `json:"value,omitempty"`
	Path     string    `json:"path,omitempty"`
	At       time.Time `json:"at"`
}

var defaultCategory = map[string]string{
	EventScroll:       CategoryEngagement,
	EventDownload:     CategoryEngagement,
	EventPageLoadTime: CategoryPerformance,
	EventPageView:     CategoryNavigation,
}

var scrollLabels = map[string]bool{"25%": true, "50%": true, "75%": true, "100%": true}

// Normalize fills in the default category and timestamp. A scroll event
// without a label carries the raw scroll depth in Value and is snapped
// down to the quartile it reached.
func (e Event) Normalize(now time.Time) Event {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == EventScroll && e.Label == "" {
		if m, ok := ScrollMilestone(int(min(e.Value, 100)), 0); ok {
			at := e.At
			e = ScrollEvent(m, e.Path)
			e.At = at
		}
	}
	if e.Category == "" {
		e.Category = defaultCategory[e.Name]
	}
	if e.At.IsZero() {
		e.At = now.UTC()
	}
	return e
}

// Validate checks the name and the per-name rules.
func (e Event) Validate() error {
	want, ok := defaultCategory[e.Name]
	if !ok {
		return fmt.Errorf("%w: unknown name %q", ErrInvalidEvent, e.Name)
	}
	if e.Category != want {
		return fmt.Errorf("%w: %s must use category %q", ErrInvalidEvent, e.Name, want)
	}
	switch e.Name {
	case EventScroll:
		if !scrollLabels[e.Label] {
			return fmt.Errorf("%w: scroll label %q is not a quartile", ErrInvalidEvent, e.Label)
		}
	case EventDownload:
		if e.Label == "" {
			return fmt.Errorf("%w: download needs a label", ErrInvalidEvent)
		}
	case EventPageLoadTime:
		if e.Value < 0 {
			return fmt.Errorf("%w: negative load time", ErrInvalidEvent)
		}
	}
	return nil
}

// ScrollMilestone reports the quartile to record for a scroll sample given
// the highest quartile already recorded, or ok=false when nothing new was reached.
func ScrollMilestone(percent, maxSoFar int) (milestone int, ok bool) {
	if percent > 100 {
		percent = 100
	}
	m := percent - percent%25
	if m == 0 || m <= maxSoFar {
		return maxSoFar, false
	}
	return m, true
}

// ScrollEvent builds the scroll event for a milestone.
func ScrollEvent(milestone int, path string) Event {
	return Event{Name: EventScroll, Category: CategoryEngagement, Label: fmt.Sprintf("%d%%", milestone), Path: path}
}

// Sink receives validated events.
type Sink interface {
	Track(ctx context.Context, e Event) error
}

// LogSink writes events to slog.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Track(ctx context.Context, e Event) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "analytics event", "name", e.Name, "category", e.Category, "label", e.Label, "value", e.Value, "path", e.Path)
	return nil
}

// MultiSink fans out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Track(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Track(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tracker normalizes and validates events before handing them to a sink.
type Tracker struct {
	sink Sink
	now  func() time.Time
}

// NewTracker returns a Tracker writing to sink.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{sink: sink, now: time.Now}
}

// Track records e after validation.
func (t *Tracker) Track(ctx context.Context, e Event) (Event, error) {
	e = e.Normalize(t.now())
	if err := e.Validate(); err != nil {
		return e, err
	}
	if err := t.sink.Track(ctx, e); err != nil {
		return e, fmt.Errorf("tracking %s: %w", e.Name, err)
	}
	return e, nil
}
