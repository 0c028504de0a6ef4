package generator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"homematch/internal/config"
	"homematch/internal/llm"
	"homematch/internal/model"
)

const listingPrompt = `You are an expert real-estate copywriter.

Generate a **fictional but realistic** property listing that follows this brief:
- Each call must describe a different neighborhood.
- Keep data plausible and coherent.

Return ONLY a valid JSON object with these fields:
- neighborhood: name of the neighborhood (string)
- price: listing price in whole US dollars (integer)
- bedrooms: number of bedrooms, 1 to 6 (integer)
- bathrooms: number of bathrooms, 1 to 4 (integer)
- house_size: living area, e.g. "2150 sqft" (string)
- description: 5-6 engaging sentences describing the property (string)
- neighborhood_description: 3-4 sentences describing the neighborhood (string)`

// Generator produces synthetic listings by prompting the language model once
// per listing, with retry and rate-limit pacing.
type Generator struct {
	chat   llm.ChatClient
	cfg    *config.GenerationConfig
	logger *logrus.Logger
}

// New creates a listing generator.
func New(chat llm.ChatClient, cfg *config.GenerationConfig, logger *logrus.Logger) *Generator {
	return &Generator{chat: chat, cfg: cfg, logger: logger}
}

// Generate produces up to n listings. Each slot gets its own retry budget;
// a slot whose retries are exhausted is skipped, so the result may be
// shorter than n. Individual failures never propagate past this step.
func (g *Generator) Generate(ctx context.Context, n int) ([]model.Listing, error) {
	policy := llm.Policy{
		MaxRetries: g.cfg.MaxRetries,
		Pause:      g.cfg.Pause,
		Logger:     g.logger,
	}

	listings := make([]model.Listing, 0, n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		var listing model.Listing
		err := policy.Do(ctx, "generate_listing", func() error {
			got, err := g.generateOne(ctx)
			if err != nil {
				return err
			}
			listing = *got
			return nil
		})

		if err != nil {
			g.logger.WithFields(logrus.Fields{
				"slot":    i,
				"retries": g.cfg.MaxRetries,
			}).Warnf("listing slot skipped after exhausting retries: %v", err)
		} else {
			listings = append(listings, listing)
		}

		// Pacing between slots to respect upstream rate limits.
		if i < n-1 && g.cfg.Pause > 0 {
			select {
			case <-time.After(g.cfg.Pause):
			case <-ctx.Done():
				return listings, ctx.Err()
			}
		}
	}

	g.logger.WithFields(logrus.Fields{
		"requested": n,
		"generated": len(listings),
	}).Info("listing batch generated")

	return listings, nil
}

// generateOne makes a single model call and validates the result. A schema
// violation is treated exactly like a transport failure by the retry policy.
func (g *Generator) generateOne(ctx context.Context) (*model.Listing, error) {
	resp, err := g.chat.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: listingPrompt},
			{Role: "user", Content: "Generate one new listing."},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var listing model.Listing
	if err := llm.DecodeJSON(resp.Choices[0].Message.Content, &listing); err != nil {
		return nil, err
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	return &listing, nil
}
