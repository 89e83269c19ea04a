package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"whiskyai/internal/api/handlers"
	"whiskyai/internal/api/middleware"
	"whiskyai/internal/config"
	"whiskyai/internal/database"
	"whiskyai/internal/flavor"
	"whiskyai/internal/generator"
	"whiskyai/internal/logger"
	"whiskyai/internal/openai"
	"whiskyai/internal/services/woocommerce"
	"whiskyai/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Generation pipeline
	productStore := store.New(db.DB)
	chatClient := openai.NewClient(cfg.OpenAIAPIKey, log)
	mapper := flavor.NewMapper(cfg.FlavorCategories)
	processor := generator.NewProcessor(
		productStore,
		generator.NewDescriptionGenerator(chatClient, log),
		generator.NewCategoryGenerator(chatClient, mapper, log),
		generator.Settings{
			Model:             cfg.OpenAIModel,
			DescriptionPrompt: cfg.DescriptionPrompt,
			CategoryPrompt:    cfg.CategoryPrompt,
		},
		log,
	)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB)
	generationHandler := handlers.NewGenerationHandler(processor, productStore, cfg.OpenAIAPIKey != "", log)
	settingsHandler := handlers.NewSettingsHandler(log)

	var importer handlers.CatalogImporter
	if cfg.WooStoreURL != "" {
		wooClient := woocommerce.NewClient(cfg.WooStoreURL, cfg.WooConsumerKey, cfg.WooConsumerSecret, log)
		importer = woocommerce.NewImporter(wooClient, productStore, log)
	}
	syncHandler := handlers.NewSyncHandler(importer, log)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		// Content generation
		generate := v1.Group("/generate")
		{
			generate.POST("/descriptions", generationHandler.GenerateDescriptions)
			generate.POST("/categories", generationHandler.GenerateCategories)
			generate.POST("/fix-missing", generationHandler.FixMissing)
		}

		// Dashboard
		generation := v1.Group("/generation")
		{
			generation.GET("/products", generationHandler.ListProducts)
			generation.GET("/stats", generationHandler.Stats)
		}

		// Settings
		settings := v1.Group("/settings")
		{
			settings.POST("/verify-key", settingsHandler.VerifyKey)
		}

		// WooCommerce import
		v1.POST("/sync", syncHandler.Sync)
	}

	return &Server{
		config: cfg,
		logger: log,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     cors.Default().Handler(s.router),
		ReadTimeout: 15 * time.Second,
		// No write timeout: batch generation is synchronous and scales with
		// the product list length.
		IdleTimeout: 60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
