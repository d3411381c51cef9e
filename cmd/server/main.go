package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"speakermap/internal/api"
	"speakermap/internal/config"
	"speakermap/internal/contacts"
	"speakermap/internal/match"
	"speakermap/internal/repository"
	"speakermap/internal/storage"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Pick the match-run store: sqlite when DATABASE_PATH is set, otherwise
	// in-memory only.
	var repo repository.MatchRepository
	if cfg.DatabasePath != "" {
		log.Printf("Opening match-run database at %s...", cfg.DatabasePath)
		repo, err = repository.NewSQLiteRepository(cfg.DatabasePath)
		if err != nil {
			log.Printf("Warning: Failed to open database: %v. Continuing with in-memory storage.", err)
			repo = storage.NewRunStore()
		}
	} else {
		log.Println("DATABASE_PATH not set, match runs are kept in memory only")
		repo = storage.NewRunStore()
	}
	api.InitMatchRepository(repo)

	// Contact directory is optional; matching degrades to timeline and
	// heuristic signals without it.
	ctx := context.Background()
	directory, err := contacts.CreateDirectory(ctx)
	if err != nil {
		log.Printf("Warning: Failed to create contact directory: %v. Continuing without contact data.", err)
		directory = nil
	}
	if directory != nil {
		directory = contacts.NewCache(directory)
	}
	api.InitMatcher(directory, matcherOptions(cfg))

	r := gin.Default()

	// Add CORS middleware for the desktop/mobile clients
	r.Use(corsMiddleware())

	// Register routes
	api.RegisterRoutes(r)

	log.Printf("SpeakerMap backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// matcherOptions maps the configuration overlay onto matcher options,
// leaving unset knobs at their defaults.
func matcherOptions(cfg *config.Config) match.Options {
	return match.Options{
		TimelineToleranceMs: cfg.Matcher.TimelineToleranceMs,
		MinTimelineVotes:    cfg.Matcher.MinTimelineVotes,
		HighConfidenceVotes: cfg.Matcher.HighConfidenceVotes,
		FreeEmailDomains:    cfg.Matcher.FreeEmailDomains,
	}
}

// corsMiddleware adds CORS headers for the clients
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
