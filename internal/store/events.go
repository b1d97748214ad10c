package store

import (
	"context"
	"fmt"
	"time"
)

// Event is a stored analytics hit.
type Event struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Label     string    `json:"label"`
	Value     int64     `json:"value"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// EventCount is the number of events per name and label.
type EventCount struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// SaveEvent inserts an analytics event.
func (s *Store) SaveEvent(ctx context.Context, e Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (name, category, label, value, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Category, e.Label, e.Value, e.Path, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving event: %w", err)
	}
	return nil
}

// CountEvents groups events by name and label, most frequent first.
func (s *Store) CountEvents(ctx context.Context) ([]EventCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, label, COUNT(*) AS n FROM events
		GROUP BY name, label
		ORDER BY n DESC, name, label`)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	defer rows.Close()

	var out []EventCount
	for rows.Next() {
		var c EventCount
		if err := rows.Scan(&c.Name, &c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning event count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AverageValue returns the mean value of the named event, 0 when there are none.
func (s *Store) AverageValue(ctx context.Context, name string) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(value), 0) FROM events WHERE name = ?`, name).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("averaging %s: %w", name, err)
	}
	return avg, nil
}
