package main

import (
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"breed-gallery/pkg/config"
	"breed-gallery/pkg/handlers"
	"breed-gallery/pkg/logging"
	"breed-gallery/pkg/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(os.Getenv("DEBUG") != "")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize services
	svc := services.InitService(cfg, logger)
	defer svc.Close()

	// Start server
	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), handlers.NewRouter(svc, logger, "./views", "./public")); err != nil {
		logger.Error("Server error", zap.Error(err))
		os.Exit(1)
	}
}
