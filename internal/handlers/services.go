package handlers

import (
	"log"

	"github.com/pacificdev/standup-intake/internal/config"
	"github.com/pacificdev/standup-intake/internal/database"
	"github.com/pacificdev/standup-intake/internal/services"
)

// Shared service instances, wired once at startup.
var (
	Store    services.FeedbackStore
	Linker   *services.TicketLinker
	Notifier *services.WebhookNotifier
	Pipeline *services.SubmissionPipeline
	Flash    *services.FlashService
	Pages    *services.PageService
)

// InitServices wires the handler package to its collaborators. Call after
// the database connections are up.
func InitServices(cfg *config.Config) {
	Linker = services.NewTicketLinker(cfg.JiraBaseURL)

	switch cfg.StoreBackend {
	case "postgres":
		Store = services.NewPostgresFeedbackStore(database.PostgresDB, cfg.FeedbackTTL)
		log.Println("✅ Feedback store: PostgreSQL")
	default:
		Store = services.NewRedisFeedbackStore(database.RedisClient, cfg.FeedbackTTL)
		log.Println("✅ Feedback store: Redis")
	}

	Notifier = services.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookChannel, cfg.WebhookSender, Linker)
	if Notifier.Enabled() {
		log.Printf("✅ Webhook notifications enabled (channel %s)", cfg.WebhookChannel)
	} else {
		log.Println("Webhook notifications disabled (WEBHOOK_URL not set)")
	}

	Pipeline = services.NewSubmissionPipeline(Store, Notifier)
	Flash = services.NewFlashService(database.RedisClient)
	Pages = services.NewPageService(database.RedisClient)
}
