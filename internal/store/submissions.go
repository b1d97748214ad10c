package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Submission is a finished form attempt as kept for the admin view.
type Submission struct {
	ID          int64             `json:"id"`
	Token       string            `json:"token"`
	Form        string            `json:"form"`
	Status      string            `json:"status"`
	Fields      map[string]string `json:"fields"`
	ErrorReason string            `json:"error_reason,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SubmissionListOptions filters ListSubmissions.
type SubmissionListOptions struct {
	// Form filters by form name; empty returns every form.
	Form   string
	Status string
	Limit  int
	Offset int
}

// SaveSubmission inserts a finished attempt. Saving the same token twice is a no-op.
func (s *Store) SaveSubmission(ctx context.Context, sub Submission) error {
	fields, err := json.Marshal(sub.Fields)
	if err != nil {
		return fmt.Errorf("encoding submission fields: %w", err)
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (token, form, status, fields, error_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING`,
		sub.Token, sub.Form, sub.Status, string(fields), sub.ErrorReason, formatTime(sub.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving submission: %w", err)
	}
	return nil
}

// ListSubmissions returns submissions newest first.
func (s *Store) ListSubmissions(ctx context.Context, opts SubmissionListOptions) ([]Submission, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, token, form, status, fields, error_reason, created_at
		FROM submissions
		WHERE (? = '' OR form = ?) AND (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		opts.Form, opts.Form, opts.Status, opts.Status, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// GetSubmission looks a submission up by attempt token.
func (s *Store) GetSubmission(ctx context.Context, token string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, token, form, status, fields, error_reason, created_at
		FROM submissions WHERE token = ?`, token)
	sub, err := scanSubmission(row)
	if err != nil {
		return Submission{}, notFound(err)
	}
	return sub, nil
}

func scanSubmission(sc scanner) (Submission, error) {
	var sub Submission
	var fields, ts string
	if err := sc.Scan(&sub.ID, &sub.Token, &sub.Form, &sub.Status, &fields, &sub.ErrorReason, &ts); err != nil {
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(fields), &sub.Fields); err != nil {
		sub.Fields = nil
	}
	sub.CreatedAt = parseTime(ts)
	return sub, nil
}
