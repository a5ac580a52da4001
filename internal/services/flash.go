package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// FlashKeyPrefix is the Redis key prefix for pending flash messages.
	FlashKeyPrefix = "flash:"
	// FlashTTL bounds how long an unread flash survives.
	FlashTTL = 10 * time.Minute
	// FlashCookieName carries the flash token between redirect and render.
	FlashCookieName = "standup_flash"
)

// FlashService stores one-shot messages shown on the next page render.
// Messages live in Redis under a random token; the token travels in a
// cookie and both are discarded on read.
type FlashService struct {
	client *redis.Client
}

// NewFlashService creates a flash store on the shared Redis client.
func NewFlashService(client *redis.Client) *FlashService {
	return &FlashService{client: client}
}

// Set stores messages for the next render and points a cookie at them.
func (f *FlashService) Set(ctx context.Context, w http.ResponseWriter, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := f.client.Set(ctx, FlashKeyPrefix+token, payload, FlashTTL).Err(); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(FlashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns any pending messages for the request and clears them, so a
// refresh never shows the same message twice.
func (f *FlashService) Pop(ctx context.Context, w http.ResponseWriter, r *http.Request) []string {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Expire the cookie regardless of whether the value is still in Redis.
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := f.client.GetDel(ctx, FlashKeyPrefix+cookie.Value).Result()
	if err != nil {
		return nil
	}

	var messages []string
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil
	}
	return messages
}
