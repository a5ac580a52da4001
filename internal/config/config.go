package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	RedisURI       string
	PostgresURI    string
	StoreBackend   string   // STORE_BACKEND: "redis" (default) or "postgres"
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	JiraBaseURL    string   // e.g. https://jira.cltbcanada.net (no trailing slash)
	WebhookURL     string   // Slack-compatible incoming webhook; empty disables notifications
	WebhookChannel string
	WebhookSender  string
	FeedbackTTL    time.Duration // how long submissions are kept
	Environment    string        // ENV: production, development, etc.
}

// DefaultFeedbackTTL matches the 7-day retention the admin view expects.
const DefaultFeedbackTTL = 7 * 24 * time.Hour

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	backend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "redis")))
	if backend != "postgres" {
		backend = "redis"
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/standup?sslmode=disable"),
		StoreBackend:   backend,
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,
		JiraBaseURL:    strings.TrimRight(getEnv("JIRA_BASE_URL", "https://jira.cltbcanada.net"), "/"),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		WebhookChannel: getEnv("WEBHOOK_CHANNEL", "#daily-standup"),
		WebhookSender:  getEnv("WEBHOOK_SENDER", "Standup Bot"),
		FeedbackTTL:    getDuration("FEEDBACK_TTL", DefaultFeedbackTTL),
		Environment:    env,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// NotifyEnabled reports whether webhook notifications are configured.
func (c *Config) NotifyEnabled() bool {
	return strings.TrimSpace(c.WebhookURL) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
