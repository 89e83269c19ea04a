package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"whiskyai/internal/config"
	"whiskyai/internal/database"
	"whiskyai/internal/flavor"
	"whiskyai/internal/generator"
	"whiskyai/internal/logger"
	"whiskyai/internal/openai"
	"whiskyai/internal/store"
	"whiskyai/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Generation pipeline
	productStore := store.New(db.DB)
	chatClient := openai.NewClient(cfg.OpenAIAPIKey, logger)
	mapper := flavor.NewMapper(cfg.FlavorCategories)
	processor := generator.NewProcessor(
		productStore,
		generator.NewDescriptionGenerator(chatClient, logger),
		generator.NewCategoryGenerator(chatClient, mapper, logger),
		generator.Settings{
			Model:             cfg.OpenAIModel,
			DescriptionPrompt: cfg.DescriptionPrompt,
			CategoryPrompt:    cfg.CategoryPrompt,
		},
		logger,
	)

	// Initialize worker
	w := worker.New(cfg, logger, processor, productStore)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
