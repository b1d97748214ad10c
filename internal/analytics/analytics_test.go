package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubinqayam/zq-portfolio/internal/store"
)

type captureSink struct {
	events []Event
	err    error
}

func (c *captureSink) Track(_ context.Context, e Event) error {
	c.events = append(c.events, e)
	return c.err
}

func TestTracker_NormalizesAndValidates(t *testing.T) {
	sink := &captureSink{}
	tr := NewTracker(sink)

	e, err := tr.Track(context.Background(), Event{Name: "download", Label: "resume"})
	require.NoError(t, err)
	assert.Equal(t, CategoryEngagement, e.Category)
	assert.False(t, e.At.IsZero())
	require.Len(t, sink.events, 1)

	_, err = tr.Track(context.Background(), Event{Name: "click"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.Len(t, sink.events, 1)
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		ok   bool
	}{
		{"scroll quartile", Event{Name: EventScroll, Category: CategoryEngagement, Label: "50%"}, true},
		{"scroll off quartile", Event{Name: EventScroll, Category: CategoryEngagement, Label: "40%"}, false},
		{"download without label", Event{Name: EventDownload, Category: CategoryEngagement}, false},
		{"load time", Event{Name: EventPageLoadTime, Category: CategoryPerformance, Value: 812}, true},
		{"negative load time", Event{Name: EventPageLoadTime, Category: CategoryPerformance, Value: -1}, false},
		{"wrong category", Event{Name: EventPageLoadTime, Category: CategoryEngagement}, false},
		{"page view", Event{Name: EventPageView, Category: CategoryNavigation, Path: "/"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			}
		})
	}
}

func TestScrollMilestone(t *testing.T) {
	m, ok := ScrollMilestone(30, 0)
	assert.True(t, ok)
	assert.Equal(t, 25, m)

	_, ok = ScrollMilestone(49, 25)
	assert.False(t, ok)

	m, ok = ScrollMilestone(120, 75)
	assert.True(t, ok)
	assert.Equal(t, 100, m)

	_, ok = ScrollMilestone(10, 0)
	assert.False(t, ok)

	assert.Equal(t, "75%", ScrollEvent(75, "/").Label)
}

func TestNormalize_SnapsRawScrollDepth(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	e := Event{Name: EventScroll, Value: 63, Path: "/minimal"}.Normalize(now)
	assert.Equal(t, "50%", e.Label)
	assert.Equal(t, CategoryEngagement, e.Category)
	assert.Equal(t, "/minimal", e.Path)
	assert.Zero(t, e.Value)
	assert.Equal(t, now, e.At)
	assert.NoError(t, e.Validate())

	assert.Equal(t, "100%", Event{Name: EventScroll, Value: 250}.Normalize(now).Label)

	shallow := Event{Name: EventScroll, Value: 12}.Normalize(now)
	assert.ErrorIs(t, shallow.Validate(), ErrInvalidEvent)

	labelled := Event{Name: EventScroll, Label: "75%", Value: 10}.Normalize(now)
	assert.Equal(t, "75%", labelled.Label)
}

func TestMultiSink_JoinsErrors(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{err: errors.New("disk full")}
	err := MultiSink{a, b, LogSink{}}.Track(context.Background(), Event{Name: EventPageView, At: time.Now()})

	assert.Error(t, err)
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestStoreSink(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	tr := NewTracker(StoreSink{Store: s})
	_, err = tr.Track(context.Background(), Event{Name: EventScroll, Label: "25%", Path: "/"})
	require.NoError(t, err)

	counts, err := s.CountEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, store.EventCount{Name: EventScroll, Label: "25%", Count: 1}, counts[0])
}
