package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"homematch/internal/model"
)

// Cleaner turns raw buyer text into structured preferences.
type Cleaner interface {
	Clean(ctx context.Context, rawQuery string) (*model.Preferences, error)
}

// Retriever is the query interface over the vector index.
type Retriever interface {
	Search(ctx context.Context, text string, k int) ([]model.Document, error)
}

// Composer produces the final recommendation from the cleaned query and the
// retrieved documents.
type Composer interface {
	Compose(ctx context.Context, cleanedQuery string, docs []model.Document) (*model.MatchResult, error)
}

// Pipeline wires clean -> retrieve -> compose into one request/response
// flow. Stages run strictly in order; a failed stage returns an error and
// no partial result is ever produced.
type Pipeline struct {
	cleaner   Cleaner
	retriever Retriever
	composer  Composer
	topK      int
	logger    *logrus.Logger
}

// New creates the match pipeline. topK is fixed for the pipeline's lifetime.
func New(cleaner Cleaner, retriever Retriever, composer Composer, topK int, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cleaner:   cleaner,
		retriever: retriever,
		composer:  composer,
		topK:      topK,
		logger:    logger,
	}
}

// Run executes the full match flow for one raw query. Only the cleaned
// Preferences.Query is forwarded to retrieval; the remaining preference
// fields are carried for potential future filtering.
func (p *Pipeline) Run(ctx context.Context, rawQuery string) (*model.MatchResult, error) {
	prefs, err := p.cleaner.Clean(ctx, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("cleaning stage: %w", err)
	}

	docs, err := p.retriever.Search(ctx, prefs.Query, p.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval stage: %w", err)
	}

	result, err := p.composer.Compose(ctx, prefs.Query, docs)
	if err != nil {
		return nil, fmt.Errorf("composition stage: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"query":   prefs.Query,
		"context": len(result.Context),
	}).Info("match pipeline completed")

	return result, nil
}
