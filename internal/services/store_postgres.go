package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/pacificdev/standup-intake/internal/models"
)

// PostgresFeedbackStore keeps entries in a relational table with an
// expires_at column instead of native TTLs. Reads filter expired rows so
// they never surface; actual row removal is left to the database operator
// (retention is only 7 days of human-paced submissions).
type PostgresFeedbackStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresFeedbackStore creates a Postgres-backed store with the given
// retention window. The standup_feedback table must exist (see
// database.InitPostgresTables).
func NewPostgresFeedbackStore(db *sql.DB, ttl time.Duration) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{db: db, ttl: ttl}
}

// Put persists a record; the upsert keeps last-write-wins semantics for
// same-second submissions, matching the Redis backend.
func (s *PostgresFeedbackStore) Put(ctx context.Context, fb models.Feedback) (string, error) {
	now := time.Now()
	if !fb.CreatedAt.IsZero() {
		now = fb.CreatedAt
	}
	key := FeedbackKey(now)

	payload, err := json.Marshal(fb)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO standup_feedback (entry_key, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entry_key) DO UPDATE
		SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at
	`, key, string(payload), now, now.Add(s.ttl))
	if err != nil {
		return "", err
	}
	return key, nil
}

// ListAll returns live entries newest first, skipping unreadable payloads.
func (s *PostgresFeedbackStore) ListAll(ctx context.Context) ([]FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_key, payload
		FROM standup_feedback
		WHERE expires_at > NOW()
		ORDER BY entry_key DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]FeedbackEntry, 0)
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, err
		}
		entry, err := decodeEntry(key, payload)
		if err != nil {
			log.Printf("skipping unreadable feedback entry %s: %v", key, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry; false means it was already gone (or expired).
func (s *PostgresFeedbackStore) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := ParseFeedbackKey(key); err != nil {
		return false, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM standup_feedback WHERE entry_key = $1`, key)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteAll sweeps every feedback entry (uninstall path).
func (s *PostgresFeedbackStore) DeleteAll(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM standup_feedback`)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}
