package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscribe adds email to the newsletter list. It reports created=false when
// the address was already subscribed; that is not an error.
func (s *Store) Subscribe(ctx context.Context, email string) (created bool, err error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (email, created_at) VALUES (?, ?)
		ON CONFLICT(email) DO NOTHING`,
		strings.ToLower(strings.TrimSpace(email)), formatTime(time.Now()),
	)
	if err != nil {
		return false, fmt.Errorf("subscribing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListSubscribers returns subscribers newest first.
func (s *Store) ListSubscribers(ctx context.Context, limit, offset int) ([]Subscriber, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, created_at FROM subscribers
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var sub Subscriber
		var ts string
		if err := rows.Scan(&sub.ID, &sub.Email, &ts); err != nil {
			return nil, fmt.Errorf("scanning subscriber: %w", err)
		}
		sub.CreatedAt = parseTime(ts)
		out = append(out, sub)
	}
	return out, rows.Err()
}
