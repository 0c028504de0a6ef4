package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"homematch/internal/llm"
	"homematch/internal/model"
)

const recommendPrompt = `You are HomeMatch, an expert real-estate assistant helping buyers find ideal homes based on their preferences.

You will be given:
- A structured summary of the buyer's preferences (in natural language)
- A set of real estate listings (retrieved for semantic similarity)

Your task:
- Recommend the top 3 listings that best align with the buyer's needs
- Highlight the matching features in your explanation (e.g., size, amenities, location)
- Be concise, persuasive, and grounded in the listings provided

Only use information found in the listings. Do not invent properties or add extra features.`

// Composer asks the language model for a ranked recommendation over the
// retrieved listings.
type Composer struct {
	chat   llm.ChatClient
	logger *logrus.Logger
}

// New creates a recommendation composer.
func New(chat llm.ChatClient, logger *logrus.Logger) *Composer {
	return &Composer{chat: chat, logger: logger}
}

// Compose produces the final recommendation. The returned context is an
// exact pass-through of the supplied documents; the top-3 selection lives in
// the model's free-text answer, not in code.
func (c *Composer) Compose(ctx context.Context, cleanedQuery string, docs []model.Document) (*model.MatchResult, error) {
	var answer string

	policy := llm.Policy{MaxRetries: 0, Logger: c.logger}
	err := policy.Do(ctx, "compose_recommendation", func() error {
		resp, err := c.chat.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Messages: []llm.ChatMessage{
				{Role: "system", Content: recommendPrompt + "\n\nListings:\n" + formatDocuments(docs)},
				{Role: "user", Content: cleanedQuery},
			},
		})
		if err != nil {
			return err
		}

		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
		if answer == "" {
			return fmt.Errorf("model returned an empty recommendation")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation composition failed: %w", err)
	}

	return &model.MatchResult{Answer: answer, Context: docs}, nil
}

func formatDocuments(docs []model.Document) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "--- Listing %d ---\n", i+1)
		fmt.Fprintf(&b, "Neighborhood: %v | Price: $%v | Bedrooms: %v | Bathrooms: %v | Size: %v\n",
			doc.Metadata["neighborhood"],
			doc.Metadata["price"],
			doc.Metadata["bedrooms"],
			doc.Metadata["bathrooms"],
			doc.Metadata["house_size"],
		)
		b.WriteString(doc.PageContent)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
