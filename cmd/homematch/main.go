package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"homematch/internal/cleaner"
	"homematch/internal/composer"
	"homematch/internal/config"
	"homematch/internal/generator"
	"homematch/internal/llm"
	"homematch/internal/model"
	"homematch/internal/pipeline"
	"homematch/internal/store"
)

// Script entry point. Unlike the HTTP server, failures here are fatal: the
// process logs the error and exits non-zero rather than printing a partial
// result.
func main() {
	generateCount := flag.Int("generate", 0, "generate this many listings, save them, and rebuild the index")
	query := flag.String("query", "", "run one match for the given buyer query")
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	if *generateCount <= 0 && *query == "" {
		logger.Fatal("nothing to do: pass -generate N and/or -query \"...\"")
	}

	client := llm.NewClient(&cfg.LLM, logger)

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

	ctx := context.Background()

	if *generateCount > 0 {
		gen := generator.New(client, &cfg.Generation, logger)

		listings, err := gen.Generate(ctx, *generateCount)
		if err != nil {
			logger.Fatalf("Generation failed: %v", err)
		}

		if err := generator.SaveListings(cfg.Generation.ListingsPath, listings); err != nil {
			logger.Fatalf("Failed to save listings: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"path":  cfg.Generation.ListingsPath,
			"count": len(listings),
		}).Info("listings saved")

		if err := index.Rebuild(ctx, model.ToDocuments(listings)); err != nil {
			logger.Fatalf("Index rebuild failed: %v", err)
		}
	}

	if *query != "" {
		pipe := pipeline.New(
			cleaner.New(client, logger),
			index,
			composer.New(client, logger),
			cfg.Retrieval.TopK,
			logger,
		)

		result, err := pipe.Run(ctx, *query)
		if err != nil {
			logger.Fatalf("Match failed: %v", err)
		}

		fmt.Println(result.Answer)
		fmt.Println()
		for i, doc := range result.Context {
			fmt.Printf("[%d] %v — $%v, %v bed / %v bath, %v\n",
				i+1,
				doc.Metadata["neighborhood"],
				doc.Metadata["price"],
				doc.Metadata["bedrooms"],
				doc.Metadata["bathrooms"],
				doc.Metadata["house_size"],
			)
		}
	}
}
