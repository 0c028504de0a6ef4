package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homematch/internal/cleaner"
	"homematch/internal/composer"
	"homematch/internal/config"
	"homematch/internal/generator"
	"homematch/internal/handler"
	"homematch/internal/llm"
	"homematch/internal/pipeline"
	"homematch/internal/store"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(logger, &cfg.Logging)
	gin.SetMode(cfg.Server.GinMode)

	client := llm.NewClient(&cfg.LLM, logger)
	logger.WithFields(logrus.Fields{
		"api_base":        cfg.LLM.APIBase,
		"chat_model":      cfg.LLM.ChatModel,
		"embedding_model": cfg.LLM.EmbeddingModel,
	}).Info("LLM client initialized")

	index, err := store.NewIndex(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
		cfg.LLM.EmbeddingDimensions,
		client,
		logger,
	)
	if err != nil {
		logger.Fatalf("Failed to connect to vector index: %v", err)
	}
	defer index.Close()
	logger.Info("connected to PostgreSQL vector index")

	gen := generator.New(client, &cfg.Generation, logger)
	pipe := pipeline.New(
		cleaner.New(client, logger),
		index,
		composer.New(client, logger),
		cfg.Retrieval.TopK,
		logger,
	)

	matchHandler := handler.NewMatchHandler(pipe)
	listingsHandler := handler.NewListingsHandler(gen, index, cfg)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "homematch",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/match", matchHandler.Match)
		apiV1.POST("/listings/generate", listingsHandler.Generate)
		apiV1.GET("/listings", listingsHandler.List)
		apiV1.GET("/options", listingsHandler.Options)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
}

func setupLogger(logger *logrus.Logger, cfg *config.LoggingConfig) {
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
}
