package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"
	"github.com/pacificdev/standup-intake/internal/config"
	"github.com/pacificdev/standup-intake/internal/database"
	"github.com/pacificdev/standup-intake/internal/handlers"
	"github.com/pacificdev/standup-intake/internal/middleware"
	"github.com/pacificdev/standup-intake/internal/routes"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to Redis (flash, rate limiting, page record; default store)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to PostgreSQL only when it backs the feedback store
	if cfg.StoreBackend == "postgres" {
		log.Printf("Connecting to PostgreSQL...")
		if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
			log.Fatal("Failed to connect to PostgreSQL:", err)
		}
		defer database.DisconnectPostgres()
	}

	// Wire handler services
	handlers.InitServices(cfg)

	// Ensure the feedback page exists and is published (activation hook)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := handlers.Pages.Activate(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to publish feedback page: %v", err)
	} else {
		log.Println("✅ Feedback page published")
	}
	cancel()

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /feedback")
	log.Println("  POST /feedback")
	log.Println("  POST /api/feedback")
	log.Println("  GET  /admin/feedback")
	log.Println("  POST /admin/feedback/delete")
	log.Println("  GET  /api/admin/feedback")
	log.Println("  DELETE /api/admin/feedback")
	log.Println("  POST /api/admin/lifecycle/activate")
	log.Println("  POST /api/admin/lifecycle/deactivate")
	log.Println("  POST /api/admin/lifecycle/uninstall")

	log.Printf("🚀 Standup intake running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
