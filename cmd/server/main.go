package main

import (
	"net/http"
	"os"

	"github.com/jeffnmg/green-bin-buddy/internal/api"
	"github.com/jeffnmg/green-bin-buddy/internal/config"
	"github.com/jeffnmg/green-bin-buddy/internal/database"
	"github.com/jeffnmg/green-bin-buddy/internal/gamification"
	"github.com/jeffnmg/green-bin-buddy/internal/handler"
	"github.com/jeffnmg/green-bin-buddy/internal/logger"
	"github.com/jeffnmg/green-bin-buddy/internal/middleware"
	"github.com/jeffnmg/green-bin-buddy/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Services externes : Cloudinary et Groq sont optionnels
	uploads, err := services.NewCloudinaryService(cfg)
	if err != nil {
		logger.Warning("Cloudinary disabled: %v", err)
		uploads = nil
	}
	chat, err := services.NewGroqService(cfg)
	if err != nil {
		logger.Warning("Chat assistant disabled: %v", err)
		chat = nil
	}

	handler.Init(
		gamification.NewService(gamification.NewPostgresStore(db)),
		services.NewClassifierService(cfg),
		chat,
		uploads,
	)

	// Initialize routes
	router := api.SetupRouter()

	// Wrap router with CORS middleware
	h := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, h); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
