package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"whiskyai/internal/generator"
	"whiskyai/internal/logger"
	"whiskyai/internal/models"
	"whiskyai/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerCall struct {
	ProductIDs []int64
	Mode       generator.Mode
}

type stubRunner struct {
	calls    []runnerCall
	outcomes map[generator.Mode]*generator.Outcome
}

func (s *stubRunner) Process(ctx context.Context, productIDs []int64, mode generator.Mode) *generator.Outcome {
	s.calls = append(s.calls, runnerCall{ProductIDs: productIDs, Mode: mode})
	if outcome, ok := s.outcomes[mode]; ok {
		return outcome
	}
	return &generator.Outcome{
		BatchID: uuid.New(),
		Results: map[int64]generator.Result{},
		Errors:  map[int64]string{},
	}
}

type stubCatalog struct {
	idsByTag  map[string][]int64
	summaries []store.ProductSummary
	lastTag   string
	total     int64
	tagCounts map[string]int64
}

func (s *stubCatalog) ProductIDs(ctx context.Context, remainingTag string) ([]int64, error) {
	return s.idsByTag[remainingTag], nil
}

func (s *stubCatalog) ProductSummaries(ctx context.Context, remainingTag string) ([]store.ProductSummary, error) {
	s.lastTag = remainingTag
	return s.summaries, nil
}

func (s *stubCatalog) CountProducts(ctx context.Context) (int64, error) {
	return s.total, nil
}

func (s *stubCatalog) CountWithTag(ctx context.Context, tag string) (int64, error) {
	return s.tagCounts[tag], nil
}

func newTestRouter(h *GenerationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate/descriptions", h.GenerateDescriptions)
	router.POST("/generate/categories", h.GenerateCategories)
	router.POST("/generate/fix-missing", h.FixMissing)
	router.GET("/generation/products", h.ListProducts)
	router.GET("/generation/stats", h.Stats)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateDescriptionsRejectsMissingAPIKey(t *testing.T) {
	h := NewGenerationHandler(&stubRunner{}, &stubCatalog{}, false, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/descriptions", gin.H{"product_ids": []int64{1}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "API key not configured")
}

func TestGenerateDescriptionsReturnsPartialOutcome(t *testing.T) {
	runner := &stubRunner{
		outcomes: map[generator.Mode]*generator.Outcome{
			generator.ModeDescription: {
				BatchID: uuid.New(),
				Results: map[int64]generator.Result{
					10: {ProductID: 10, Description: "Generated text"},
				},
				Errors: map[int64]string{99: "Product not found"},
			},
		},
	}
	h := NewGenerationHandler(runner, &stubCatalog{}, true, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/descriptions", gin.H{"product_ids": []int64{10, 99}})

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		OK      bool                       `json:"ok"`
		Results map[string]generator.Result `json:"results"`
		Errors  map[string]string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.OK)
	assert.Len(t, response.Results, 1)
	assert.Equal(t, "Product not found", response.Errors["99"])

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []int64{10, 99}, runner.calls[0].ProductIDs)
	assert.Equal(t, generator.ModeDescription, runner.calls[0].Mode)
}

func TestGenerateCategoriesUsesCategoryMode(t *testing.T) {
	runner := &stubRunner{}
	h := NewGenerationHandler(runner, &stubCatalog{}, true, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/categories", gin.H{"product_ids": []int64{4}})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, generator.ModeCategory, runner.calls[0].Mode)
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	h := NewGenerationHandler(&stubRunner{}, &stubCatalog{}, true, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/descriptions", gin.H{"ids": []int64{1}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFixMissingProcessesBothSubsets(t *testing.T) {
	runner := &stubRunner{
		outcomes: map[generator.Mode]*generator.Outcome{
			generator.ModeDescription: {
				Results: map[int64]generator.Result{1: {ProductID: 1}},
				Errors:  map[int64]string{2: "OpenAI API error"},
			},
			generator.ModeCategory: {
				Results: map[int64]generator.Result{3: {ProductID: 3}},
				Errors:  map[int64]string{},
			},
		},
	}
	catalog := &stubCatalog{
		idsByTag: map[string][]int64{
			models.TagDescUpdated: {1, 2},
			models.TagCatUpdated:  {3},
		},
	}
	h := NewGenerationHandler(runner, catalog, true, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/fix-missing", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		DescriptionErrors int `json:"description_errors"`
		CategoryErrors    int `json:"category_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.DescriptionErrors)
	assert.Equal(t, 0, response.CategoryErrors)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, runnerCall{ProductIDs: []int64{1, 2}, Mode: generator.ModeDescription}, runner.calls[0])
	assert.Equal(t, runnerCall{ProductIDs: []int64{3}, Mode: generator.ModeCategory}, runner.calls[1])
}

func TestFixMissingSkipsEmptySubsets(t *testing.T) {
	runner := &stubRunner{}
	catalog := &stubCatalog{idsByTag: map[string][]int64{}}
	h := NewGenerationHandler(runner, catalog, true, logger.New("error"))
	router := newTestRouter(h)

	w := postJSON(router, "/generate/fix-missing", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, runner.calls)
	assert.Contains(t, w.Body.String(), "All missing descriptions and categories have been generated.")
}

func TestListProductsRemainingOnlyFiltersByMarker(t *testing.T) {
	catalog := &stubCatalog{
		summaries: []store.ProductSummary{{ID: 1, Name: "Bowmore 12"}},
	}
	h := NewGenerationHandler(&stubRunner{}, catalog, true, logger.New("error"))
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/generation/products?remaining_only=true&generation_type=category", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TagCatUpdated, catalog.lastTag)
	assert.Contains(t, w.Body.String(), "Bowmore 12")
}

func TestListProductsWithoutFilter(t *testing.T) {
	catalog := &stubCatalog{}
	h := NewGenerationHandler(&stubRunner{}, catalog, true, logger.New("error"))
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/generation/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", catalog.lastTag)
}

func TestStats(t *testing.T) {
	catalog := &stubCatalog{
		total: 50,
		tagCounts: map[string]int64{
			models.TagDescUpdated: 30,
			models.TagCatUpdated:  45,
		},
	}
	h := NewGenerationHandler(&stubRunner{}, catalog, true, logger.New("error"))
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/generation/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Total               int64 `json:"total"`
		MissingDescriptions int64 `json:"missing_descriptions"`
		MissingCategories   int64 `json:"missing_categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(50), response.Total)
	assert.Equal(t, int64(20), response.MissingDescriptions)
	assert.Equal(t, int64(5), response.MissingCategories)
}
