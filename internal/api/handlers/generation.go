package handlers

import (
	"context"
	"net/http"

	"whiskyai/internal/generator"
	"whiskyai/internal/logger"
	"whiskyai/internal/models"
	"whiskyai/internal/openai"
	"whiskyai/internal/store"

	"github.com/gin-gonic/gin"
)

// BatchRunner runs a generation batch over a list of product IDs.
type BatchRunner interface {
	Process(ctx context.Context, productIDs []int64, mode generator.Mode) *generator.Outcome
}

// Catalog is the store surface the generation endpoints query.
type Catalog interface {
	ProductIDs(ctx context.Context, remainingTag string) ([]int64, error)
	ProductSummaries(ctx context.Context, remainingTag string) ([]store.ProductSummary, error)
	CountProducts(ctx context.Context) (int64, error)
	CountWithTag(ctx context.Context, tag string) (int64, error)
}

// GenerationHandler exposes the batch generation and dashboard endpoints.
type GenerationHandler struct {
	processor BatchRunner
	catalog   Catalog
	apiKeySet bool
	logger    *logger.Logger
}

func NewGenerationHandler(processor BatchRunner, catalog Catalog, apiKeySet bool, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{
		processor: processor,
		catalog:   catalog,
		apiKeySet: apiKeySet,
		logger:    log,
	}
}

type generateRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required"`
}

// GenerateDescriptions runs a description batch over the submitted IDs.
// POST /api/v1/generate/descriptions
func (h *GenerationHandler) GenerateDescriptions(c *gin.Context) {
	h.generate(c, generator.ModeDescription)
}

// GenerateCategories runs a category batch over the submitted IDs.
// POST /api/v1/generate/categories
func (h *GenerationHandler) GenerateCategories(c *gin.Context) {
	h.generate(c, generator.ModeCategory)
}

func (h *GenerationHandler) generate(c *gin.Context, mode generator.Mode) {
	if !h.apiKeySet {
		c.JSON(http.StatusBadRequest, gin.H{"error": openai.ErrMissingAPIKey.Error()})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	outcome := h.processor.Process(c.Request.Context(), req.ProductIDs, mode)

	c.JSON(http.StatusOK, gin.H{
		"batch_id": outcome.BatchID,
		"ok":       outcome.OK(),
		"results":  outcome.Results,
		"errors":   outcome.Errors,
	})
}

// FixMissing finds every product lacking a processed marker and runs the
// matching batch over it. Output is the dashboard's "fix all" sweep summary:
// remaining error counts per category.
// POST /api/v1/generate/fix-missing
func (h *GenerationHandler) FixMissing(c *gin.Context) {
	if !h.apiKeySet {
		c.JSON(http.StatusBadRequest, gin.H{"error": openai.ErrMissingAPIKey.Error()})
		return
	}

	ctx := c.Request.Context()

	descErrors := 0
	missingDesc, err := h.catalog.ProductIDs(ctx, models.TagDescUpdated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query products"})
		return
	}
	if len(missingDesc) > 0 {
		outcome := h.processor.Process(ctx, missingDesc, generator.ModeDescription)
		descErrors = len(outcome.Errors)
	}

	catErrors := 0
	missingCat, err := h.catalog.ProductIDs(ctx, models.TagCatUpdated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query products"})
		return
	}
	if len(missingCat) > 0 {
		outcome := h.processor.Process(ctx, missingCat, generator.ModeCategory)
		catErrors = len(outcome.Errors)
	}

	response := gin.H{
		"description_errors": descErrors,
		"category_errors":    catErrors,
	}
	if descErrors == 0 && catErrors == 0 {
		response["message"] = "All missing descriptions and categories have been generated."
	} else {
		response["message"] = "Processing complete with errors"
	}

	c.JSON(http.StatusOK, response)
}

// ListProducts returns id/name pairs for the dashboard picker. With
// remaining_only=true it excludes products already processed for the given
// generation_type.
// GET /api/v1/generation/products
func (h *GenerationHandler) ListProducts(c *gin.Context) {
	remainingTag := ""
	if c.Query("remaining_only") == "true" {
		if c.DefaultQuery("generation_type", "description") == "category" {
			remainingTag = models.TagCatUpdated
		} else {
			remainingTag = models.TagDescUpdated
		}
	}

	summaries, err := h.catalog.ProductSummaries(c.Request.Context(), remainingTag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// Stats feeds the dashboard remaining-work counters.
// GET /api/v1/generation/stats
func (h *GenerationHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.catalog.CountProducts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}
	withDesc, err := h.catalog.CountWithTag(ctx, models.TagDescUpdated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}
	withCat, err := h.catalog.CountWithTag(ctx, models.TagCatUpdated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":                total,
		"missing_descriptions": total - withDesc,
		"missing_categories":   total - withCat,
	})
}
