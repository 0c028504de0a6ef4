package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homematch/internal/pipeline"
)

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	Query string `json:"query" binding:"required"`
}

// MatchHandler handles match requests against the pipeline.
type MatchHandler struct {
	pipe *pipeline.Pipeline
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(pipe *pipeline.Pipeline) *MatchHandler {
	return &MatchHandler{pipe: pipe}
}

// Match handles POST /api/v1/match. Failures surface as inline JSON error
// bodies; the process never exits on a request failure, and a partial
// result is never returned.
func (h *MatchHandler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.pipe.Run(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Match failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
