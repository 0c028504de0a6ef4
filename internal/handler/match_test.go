package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homematch/internal/model"
	"homematch/internal/pipeline"
)

type fakeCleaner struct {
	err error
}

func (f fakeCleaner) Clean(ctx context.Context, rawQuery string) (*model.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Preferences{Query: "cleaned " + rawQuery}, nil
}

type fakeRetriever struct{}

func (fakeRetriever) Search(ctx context.Context, text string, k int) ([]model.Document, error) {
	return []model.Document{
		{PageContent: "A home.", Metadata: map[string]any{"neighborhood": "Maple Heights"}},
	}, nil
}

type fakeComposer struct{}

func (fakeComposer) Compose(ctx context.Context, cleanedQuery string, docs []model.Document) (*model.MatchResult, error) {
	return &model.MatchResult{Answer: "recommended", Context: docs}, nil
}

func testRouter(cleanErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	pipe := pipeline.New(fakeCleaner{err: cleanErr}, fakeRetriever{}, fakeComposer{}, 5, logger)
	h := NewMatchHandler(pipe)

	router := gin.New()
	router.POST("/api/v1/match", h.Match)
	return router
}

func TestMatchSuccess(t *testing.T) {
	router := testRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"query": "3 bedroom home"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"answer":"recommended"`)
	assert.Contains(t, w.Body.String(), "Maple Heights")
}

func TestMatchMissingQuery(t *testing.T) {
	router := testRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchPipelineFailureIsInlineError(t *testing.T) {
	// UI-mode contract: a failed pipeline surfaces as an error body, never
	// as a partial result and never as a process exit.
	router := testRouter(errors.New("API request failed with status 403: Access denied"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"query": "anything"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.NotContains(t, w.Body.String(), "answer")
}
