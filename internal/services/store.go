package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pacificdev/standup-intake/internal/models"
)

const (
	// FeedbackKeyPrefix is the store key prefix for feedback entries.
	FeedbackKeyPrefix = "standup_feedback_"
	// scanBatchSize is the SCAN COUNT hint for listing keys.
	scanBatchSize = 100
)

// ErrInvalidKey is returned when a caller-supplied key is not a feedback
// entry key. Delete must never touch keys outside the feedback prefix.
var ErrInvalidKey = errors.New("not a feedback entry key")

// FeedbackEntry pairs a stored record with its key.
type FeedbackEntry struct {
	Key      string
	Feedback models.Feedback
}

// FeedbackStore is the persistence contract for standup submissions.
// Entries expire after the configured retention window and never surface
// once expired.
type FeedbackStore interface {
	// Put persists a record and returns its key. Keys have second
	// resolution; two submissions in the same second resolve to the same
	// key, last write wins.
	Put(ctx context.Context, fb models.Feedback) (string, error)
	// ListAll returns every live entry, newest first. Entries whose
	// payload cannot be decoded are skipped, not fatal.
	ListAll(ctx context.Context) ([]FeedbackEntry, error)
	// Delete removes one entry and reports whether it existed. Deleting a
	// missing key is not an error.
	Delete(ctx context.Context, key string) (bool, error)
	// DeleteAll removes every feedback entry and returns the count.
	DeleteAll(ctx context.Context) (int, error)
}

// FeedbackKey builds the entry key for a submission time.
func FeedbackKey(t time.Time) string {
	return FeedbackKeyPrefix + strconv.FormatInt(t.Unix(), 10)
}

// ParseFeedbackKey extracts the creation time from an entry key.
func ParseFeedbackKey(key string) (time.Time, error) {
	raw, ok := strings.CutPrefix(key, FeedbackKeyPrefix)
	if !ok {
		return time.Time{}, ErrInvalidKey
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidKey
	}
	return time.Unix(ts, 0), nil
}

// RedisFeedbackStore keeps entries as JSON strings under TTL-bearing keys,
// the same shape the store has always used (prefix + unix timestamp).
type RedisFeedbackStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedbackStore creates a Redis-backed store with the given
// retention window.
func NewRedisFeedbackStore(client *redis.Client, ttl time.Duration) *RedisFeedbackStore {
	return &RedisFeedbackStore{client: client, ttl: ttl}
}

// Put persists a record under a timestamp-derived key with the retention TTL.
func (s *RedisFeedbackStore) Put(ctx context.Context, fb models.Feedback) (string, error) {
	now := time.Now()
	if !fb.CreatedAt.IsZero() {
		now = fb.CreatedAt
	}
	key := FeedbackKey(now)

	payload, err := json.Marshal(fb)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return key, nil
}

// ListAll scans the feedback prefix and returns live entries newest first.
func (s *RedisFeedbackStore) ListAll(ctx context.Context) ([]FeedbackEntry, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	sortKeysNewestFirst(keys)

	entries := make([]FeedbackEntry, 0, len(keys))
	if len(keys) == 0 {
		return entries, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Expired between SCAN and MGET.
			continue
		}
		entry, err := decodeEntry(keys[i], raw)
		if err != nil {
			log.Printf("skipping unreadable feedback entry %s: %v", keys[i], err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes one entry; false means it was already gone.
func (s *RedisFeedbackStore) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := ParseFeedbackKey(key); err != nil {
		return false, err
	}
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll sweeps every feedback entry (uninstall path).
func (s *RedisFeedbackStore) DeleteAll(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (s *RedisFeedbackStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, FeedbackKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// decodeEntry unpacks one stored payload; the creation time comes from the
// key, not the payload.
func decodeEntry(key, raw string) (FeedbackEntry, error) {
	createdAt, err := ParseFeedbackKey(key)
	if err != nil {
		return FeedbackEntry{}, err
	}
	var fb models.Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return FeedbackEntry{}, err
	}
	fb.CreatedAt = createdAt
	return FeedbackEntry{Key: key, Feedback: fb}, nil
}

// sortKeysNewestFirst orders keys by their embedded timestamp, descending.
// Keys are fixed-prefix plus a unix timestamp, so numeric comparison of the
// suffix is exact even across digit-count boundaries.
func sortKeysNewestFirst(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ti, erri := ParseFeedbackKey(keys[i])
		tj, errj := ParseFeedbackKey(keys[j])
		if erri != nil || errj != nil {
			return keys[i] > keys[j]
		}
		return ti.After(tj)
	})
}
