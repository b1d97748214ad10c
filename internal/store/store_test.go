package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.7", "salt")
	assert.Len(t, a, 16)
	assert.Equal(t, a, HashIP("203.0.113.7", "salt"))
	assert.NotEqual(t, a, HashIP("203.0.113.7", "other"))
}

func TestVisitors_RecordListCleanup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisitor(ctx, Visitor{HashedIP: "aaaa", Path: "/", Timestamp: now.AddDate(-2, 0, 0)}))
	require.NoError(t, s.RecordVisitor(ctx, Visitor{HashedIP: "bbbb", Path: "/minimal", Timestamp: now.Add(-time.Hour)}))

	visitors, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 2)
	assert.Equal(t, "/minimal", visitors[0].Path)
	assert.True(t, now.Add(-time.Hour).Equal(visitors[0].Timestamp))

	n, err := s.CleanupVisitors(ctx, now, DefaultVisitorRetention)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSubmissions_SaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub := Submission{Token: "tok-1", Form: "contact", Status: "succeeded", Fields: map[string]string{"name": "Jo"}}
	require.NoError(t, s.SaveSubmission(ctx, sub))
	require.NoError(t, s.SaveSubmission(ctx, sub), "duplicate token is ignored")
	require.NoError(t, s.SaveSubmission(ctx, Submission{Token: "tok-2", Form: "newsletter", Status: "failed", ErrorReason: "Failed to subscribe. Please try again."}))

	all, err := s.ListSubmissions(ctx, SubmissionListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	contact, err := s.ListSubmissions(ctx, SubmissionListOptions{Form: "contact"})
	require.NoError(t, err)
	require.Len(t, contact, 1)
	assert.Equal(t, "Jo", contact[0].Fields["name"])

	got, err := s.GetSubmission(ctx, "tok-2")
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)

	_, err = s.GetSubmission(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribe_Duplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Subscribe(ctx, "Reader@Example.org")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Subscribe(ctx, " reader@example.org ")
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := s.ListSubscribers(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.org", subs[0].Email)
}

func TestIdempotencyKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	_, claimed, err := s.ClaimKey(ctx, "k1", "contact", now, time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)

	rec, claimed, err := s.ClaimKey(ctx, "k1", "contact", now, time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.True(t, rec.Pending())

	require.NoError(t, s.CompleteKey(ctx, "k1", 201, `{"status":"succeeded"}`))
	rec, err = s.GetKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Status)
	assert.Equal(t, `{"status":"succeeded"}`, rec.Response)

	_, claimed, err = s.ClaimKey(ctx, "k1", "contact", now.Add(2*time.Hour), time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed, "expired keys can be claimed again")

	require.NoError(t, s.ReleaseKey(ctx, "k1"))
	assert.ErrorIs(t, s.CompleteKey(ctx, "k1", 200, ""), ErrNotFound)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.RecordVisitor(ctx, Visitor{HashedIP: "a", Path: "/", Timestamp: now}))
	require.NoError(t, s.RecordVisitor(ctx, Visitor{HashedIP: "a", Path: "/", Timestamp: now}))
	require.NoError(t, s.SaveSubmission(ctx, Submission{Token: "t", Form: "contact", Status: "failed"}))
	_, err := s.Subscribe(ctx, "x@y.com")
	require.NoError(t, err)
	require.NoError(t, s.SaveEvent(ctx, Event{Name: "page_load_time", Category: "performance", Value: 100}))
	require.NoError(t, s.SaveEvent(ctx, Event{Name: "page_load_time", Category: "performance", Value: 300}))
	require.NoError(t, s.SaveEvent(ctx, Event{Name: "download", Category: "engagement", Label: "resume"}))

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsThisWeek)
	assert.EqualValues(t, 1, stats.FailedSubmissions)
	assert.EqualValues(t, 1, stats.TotalSubscribers)
	assert.InDelta(t, 200, stats.AveragePageLoadMS, 0.001)
	require.NotEmpty(t, stats.Events)
	assert.Equal(t, "page_load_time", stats.Events[0].Name)
	assert.EqualValues(t, 2, stats.Events[0].Count)
}
