package store

import (
	"context"
	"fmt"
	"time"
)

// DefaultIdempotencyTTL is how long a replayed key returns the stored response.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyRecord is the stored result of a request keyed by the client.
// Status is 0 while the first request is still being processed.
type IdempotencyRecord struct {
	Key       string    `json:"key"`
	Form      string    `json:"form"`
	Status    int       `json:"status"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Pending reports whether the original request has not finished yet.
func (r IdempotencyRecord) Pending() bool { return r.Status == 0 }

// ClaimKey reserves key for the caller. When the key is already held and
// unexpired it returns the existing record with claimed=false.
func (s *Store) ClaimKey(ctx context.Context, key, form string, now time.Time, ttl time.Duration) (rec IdempotencyRecord, claimed bool, err error) {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM idempotency_keys WHERE key = ? AND expires_at < ?`, key, formatTime(now)); err != nil {
		return rec, false, fmt.Errorf("expiring idempotency key: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, form, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING`,
		key, form, formatTime(now), formatTime(now.Add(ttl)))
	if err != nil {
		return rec, false, fmt.Errorf("claiming idempotency key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return IdempotencyRecord{Key: key, Form: form, CreatedAt: now.UTC().Truncate(time.Second), ExpiresAt: now.Add(ttl).UTC().Truncate(time.Second)}, true, nil
	}

	rec, err = s.GetKey(ctx, key)
	return rec, false, err
}

// CompleteKey stores the final status and response body for key.
func (s *Store) CompleteKey(ctx context.Context, key string, status int, response string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE idempotency_keys SET status = ?, response = ? WHERE key = ?`, status, response, key)
	if err != nil {
		return fmt.Errorf("completing idempotency key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseKey forgets key so the client may retry with it.
func (s *Store) ReleaseKey(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE key = ?`, key); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

// GetKey loads the record for key.
func (s *Store) GetKey(ctx context.Context, key string) (IdempotencyRecord, error) {
	var rec IdempotencyRecord
	var created, expires string
	err := s.db.QueryRowContext(ctx, `
		SELECT key, form, status, response, created_at, expires_at
		FROM idempotency_keys WHERE key = ?`, key).
		Scan(&rec.Key, &rec.Form, &rec.Status, &rec.Response, &created, &expires)
	if err != nil {
		return IdempotencyRecord{}, notFound(err)
	}
	rec.CreatedAt = parseTime(created)
	rec.ExpiresAt = parseTime(expires)
	return rec, nil
}
