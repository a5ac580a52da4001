package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pacificdev/standup-intake/internal/database"
	"github.com/pacificdev/standup-intake/internal/services"
)

const (
	// SubmitRateWindow is the window for counting form submissions per IP
	SubmitRateWindow = 120 * time.Second
	// SubmitRateMax is the maximum number of submissions allowed in the window.
	// Standups are human-paced; anything past this is form spam.
	SubmitRateMax = 10
	// SubmitRateKeyPrefix is the Redis key prefix for rate limiting
	SubmitRateKeyPrefix = "ratelimit:submit:"
)

// SubmitRateLimit throttles form submissions per client IP. Redis failures
// fail open: a broken limiter must not take the form down.
func SubmitRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipAddress := services.GetIPAddress(r)
		ctx := context.Background()
		rateLimitKey := SubmitRateKeyPrefix + ipAddress

		newCount, err := database.RedisClient.Incr(ctx, rateLimitKey).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if newCount == 1 {
			// First request in this window
			database.RedisClient.Expire(ctx, rateLimitKey, SubmitRateWindow)
		}

		if newCount > SubmitRateMax {
			w.Header().Set("Retry-After", strconv.Itoa(int(SubmitRateWindow.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Too many submissions. Please try again later."))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(SubmitRateMax))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(SubmitRateMax-int(newCount)))

		next.ServeHTTP(w, r)
	})
}
