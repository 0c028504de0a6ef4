package cleaner

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"homematch/internal/llm"
	"homematch/internal/model"
)

const cleaningPrompt = `You are a helpful assistant for a real estate matching app.

Your task is to extract the buyer's home preferences from natural language
and return them as a structured JSON object.

Return ONLY a valid JSON object matching the following fields:

- bedrooms: integer (optional)
- bathrooms: integer (optional)
- house_size: string (e.g., "2000 sqft")
- amenities: array of strings (e.g., ["backyard", "solar panels"])
- transportation: array of strings (e.g., ["bike paths", "public transit"])
- neighborhood_traits: array of strings (e.g., ["quiet", "family-friendly"])
- price_range: string (e.g., "under $500,000")
- lifestyle: string (e.g., "remote work")
- query: one clear sentence (< 40 words) summarizing all preferences,
  optimized for similarity search in a vector database

If the user doesn't mention a field, set it to null or an empty list (for arrays).
The "query" field is always required.`

// Cleaner turns a buyer's free-text request into structured preferences
// plus one search-optimized sentence.
type Cleaner struct {
	chat   llm.ChatClient
	logger *logrus.Logger
}

// New creates a query cleaner.
func New(chat llm.ChatClient, logger *logrus.Logger) *Cleaner {
	return &Cleaner{chat: chat, logger: logger}
}

// Clean extracts preferences from rawQuery. There is no retry loop here:
// the rest of the pipeline has no fallback text to search with, so any
// failure escalates to the caller.
func (c *Cleaner) Clean(ctx context.Context, rawQuery string) (*model.Preferences, error) {
	c.logger.WithField("raw_query", rawQuery).Info("cleaning buyer query")

	var prefs model.Preferences

	policy := llm.Policy{MaxRetries: 0, Logger: c.logger}
	err := policy.Do(ctx, "clean_query", func() error {
		resp, err := c.chat.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Messages: []llm.ChatMessage{
				{Role: "system", Content: cleaningPrompt},
				{Role: "user", Content: rawQuery},
			},
			ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
		})
		if err != nil {
			return err
		}

		if err := llm.DecodeJSON(resp.Choices[0].Message.Content, &prefs); err != nil {
			return err
		}
		return prefs.Validate()
	})
	if err != nil {
		return nil, fmt.Errorf("query cleaning failed: %w", err)
	}

	c.logger.WithField("query", prefs.Query).Info("buyer query cleaned")

	return &prefs, nil
}
