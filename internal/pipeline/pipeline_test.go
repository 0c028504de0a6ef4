package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homematch/internal/cleaner"
	"homematch/internal/composer"
	"homematch/internal/llm"
	"homematch/internal/model"
)

// scriptedChat returns one canned reply per call, in order.
type scriptedChat struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedChat) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.ChatChoice{
			{Message: llm.ChatMessage{Role: "assistant", Content: s.replies[i]}},
		},
	}, nil
}

// memoryRetriever returns its fixture documents, capped at k.
type memoryRetriever struct {
	docs      []model.Document
	lastQuery string
}

func (m *memoryRetriever) Search(ctx context.Context, text string, k int) ([]model.Document, error) {
	m.lastQuery = text
	if len(m.docs) <= k {
		return m.docs, nil
	}
	return m.docs[:k], nil
}

type countingComposer struct {
	calls int
}

func (c *countingComposer) Compose(ctx context.Context, cleanedQuery string, docs []model.Document) (*model.MatchResult, error) {
	c.calls++
	return &model.MatchResult{Answer: "stub", Context: docs}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func mapleHeightsFixtures(n int) []model.Document {
	docs := make([]model.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, model.Document{
			PageContent: "A three-bedroom home in Maple Heights with a sunny yard.",
			Metadata: map[string]any{
				"neighborhood": "Maple Heights",
				"price":        500000 + i*10000,
				"bedrooms":     3,
				"bathrooms":    2,
				"house_size":   "1900 sqft",
			},
		})
	}
	return docs
}

func TestRunEndToEnd(t *testing.T) {
	fixtures := mapleHeightsFixtures(5)
	chat := &scriptedChat{replies: []string{
		`{"bedrooms": 3, "query": "3 bedroom home in a friendly neighborhood"}`,
		"The Maple Heights listings are your best match: all three-bedroom homes near the top of your budget.",
	}}
	retriever := &memoryRetriever{docs: fixtures}

	pipe := New(
		cleaner.New(chat, quietLogger()),
		retriever,
		composer.New(chat, quietLogger()),
		5,
		quietLogger(),
	)

	result, err := pipe.Run(context.Background(), "I want a 3 bedroom home")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Answer)
	assert.GreaterOrEqual(t, len(result.Context), 1)
	assert.LessOrEqual(t, len(result.Context), 5)
	for _, doc := range result.Context {
		assert.Equal(t, 3, doc.Metadata["bedrooms"])
		assert.Equal(t, "Maple Heights", doc.Metadata["neighborhood"])
	}

	// Retrieval sees the cleaned search sentence, not the raw query.
	assert.Equal(t, "3 bedroom home in a friendly neighborhood", retriever.lastQuery)
}

func TestRunRespectsTopK(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"query": "any home"}`,
		"Here are my picks.",
	}}
	retriever := &memoryRetriever{docs: mapleHeightsFixtures(10)}

	pipe := New(cleaner.New(chat, quietLogger()), retriever, composer.New(chat, quietLogger()), 5, quietLogger())

	result, err := pipe.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, result.Context, 5)
}

func TestRunCleaningFailureStopsPipeline(t *testing.T) {
	// An access-denied failure in cleaning must surface before any model
	// call reaches the composer.
	chat := &scriptedChat{
		replies: []string{""},
		errs:    []error{errors.New("API request failed with status 403: Access denied")},
	}
	comp := &countingComposer{}
	retriever := &memoryRetriever{docs: mapleHeightsFixtures(3)}

	pipe := New(cleaner.New(chat, quietLogger()), retriever, comp, 5, quietLogger())

	_, err := pipe.Run(context.Background(), "I want a 3 bedroom home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleaning stage")
	assert.Equal(t, 0, comp.calls)
}

func TestRunRetrievalFailureStopsPipeline(t *testing.T) {
	chat := &scriptedChat{replies: []string{`{"query": "any home"}`}}
	comp := &countingComposer{}

	pipe := New(cleaner.New(chat, quietLogger()), failingRetriever{}, comp, 5, quietLogger())

	_, err := pipe.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval stage")
	assert.Equal(t, 0, comp.calls)
}

type failingRetriever struct{}

func (failingRetriever) Search(ctx context.Context, text string, k int) ([]model.Document, error) {
	return nil, errors.New("index unavailable")
}
