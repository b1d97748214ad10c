package store

import (
	"context"
	"time"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors     int64        `json:"total_visitors"`
	UniqueVisitors    int64        `json:"unique_visitors"`
	VisitorsToday     int64        `json:"visitors_today"`
	VisitorsThisWeek  int64        `json:"visitors_this_week"`
	TotalSubmissions  int64        `json:"total_submissions"`
	FailedSubmissions int64        `json:"failed_submissions"`
	TotalSubscribers  int64        `json:"total_subscribers"`
	AveragePageLoadMS float64      `json:"average_page_load_ms"`
	Events            []EventCount `json:"events"`
	RecentVisitors    []Visitor    `json:"recent_visitors"`
	RecentSubmissions []Submission `json:"recent_submissions"`
}

// Stats collects the dashboard numbers as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	startOfDay := now.UTC().Truncate(24 * time.Hour)

	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(startOfDay)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(now.Add(-7 * 24 * time.Hour))}},
		{&stats.TotalSubmissions, `SELECT COUNT(*) FROM submissions`, nil},
		{&stats.FailedSubmissions, `SELECT COUNT(*) FROM submissions WHERE status = 'failed'`, nil},
		{&stats.TotalSubscribers, `SELECT COUNT(*) FROM subscribers`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	var err error
	if stats.AveragePageLoadMS, err = s.AverageValue(ctx, "page_load_time"); err != nil {
		return nil, err
	}
	if stats.Events, err = s.CountEvents(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentSubmissions, err = s.ListSubmissions(ctx, SubmissionListOptions{Limit: 10}); err != nil {
		return nil, err
	}
	return stats, nil
}
