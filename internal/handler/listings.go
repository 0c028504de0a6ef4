package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homematch/internal/config"
	"homematch/internal/generator"
	"homematch/internal/model"
	"homematch/internal/store"
)

// GenerateRequest is the body of POST /api/v1/listings/generate.
type GenerateRequest struct {
	Count int `json:"count"`
}

// ListingsHandler handles listing generation and inspection.
type ListingsHandler struct {
	gen   *generator.Generator
	index *store.Index
	cfg   *config.Config
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(gen *generator.Generator, index *store.Index, cfg *config.Config) *ListingsHandler {
	return &ListingsHandler{gen: gen, index: index, cfg: cfg}
}

// Generate handles POST /api/v1/listings/generate: generates synthetic
// listings, persists them to the listings file, and rebuilds the index.
func (h *ListingsHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = h.cfg.Generation.Count
	}

	listings, err := h.gen.Generate(c.Request.Context(), req.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	if err := generator.SaveListings(h.cfg.Generation.ListingsPath, listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save listings: " + err.Error()})
		return
	}

	if err := h.index.Rebuild(c.Request.Context(), model.ToDocuments(listings)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Index rebuild failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requested": req.Count,
		"generated": len(listings),
	})
}

// List handles GET /api/v1/listings: returns the persisted listing set.
func (h *ListingsHandler) List(c *gin.Context) {
	listings, err := generator.LoadListings(h.cfg.Generation.ListingsPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No listings available: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    len(listings),
	})
}

// Options handles GET /api/v1/options: the static preference option lists
// frontends use to build their widgets.
func (h *ListingsHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page_title":          h.cfg.UI.PageTitle,
		"amenities":           h.cfg.UI.Amenities,
		"transportation":      h.cfg.UI.Transportation,
		"neighborhood_traits": h.cfg.UI.NeighborhoodTraits,
	})
}
