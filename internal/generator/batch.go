package generator

import (
	"context"
	"errors"
	"time"

	"whiskyai/internal/flavor"
	"whiskyai/internal/logger"
	"whiskyai/internal/models"
	"whiskyai/internal/openai"
	"whiskyai/internal/store"

	"github.com/google/uuid"
)

// Mode selects which content a batch run generates.
type Mode string

const (
	ModeDescription Mode = "description"
	ModeCategory    Mode = "category"
)

// ProcessedTag returns the marker applied after a successful run in this mode.
func (m Mode) ProcessedTag() string {
	if m == ModeCategory {
		return models.TagCatUpdated
	}
	return models.TagDescUpdated
}

// ProductStore is the catalog surface the batch processor needs.
type ProductStore interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
	SetDescription(ctx context.Context, id int64, text string) error
	GetCategoryIDs(ctx context.Context, id int64) ([]int64, error)
	SetCategoryIDs(ctx context.Context, id int64, termIDs []int64) error
	AddTag(ctx context.Context, id int64, tag string) error
	HasTag(ctx context.Context, id int64, tag string) (bool, error)
	Save(ctx context.Context, id int64) error
	RecordGeneration(ctx context.Context, record *models.GenerationRecord) error
}

// Result is the per-product success payload of a batch run. Debug carries
// the full OpenAI exchange for diagnostic surfacing.
type Result struct {
	ProductID   int64             `json:"product_id"`
	Description string            `json:"description,omitempty"`
	Categories  []flavor.Category `json:"categories,omitempty"`
	CategoryIDs []int64           `json:"category_ids,omitempty"`
	RawText     string            `json:"raw_text,omitempty"`
	Debug       openai.Debug      `json:"debug"`
}

// Outcome aggregates one batch invocation: successes keyed by product ID and
// an error map for the items that failed. A mixed outcome is a valid state,
// not a hard failure.
type Outcome struct {
	BatchID uuid.UUID        `json:"batch_id"`
	Results map[int64]Result `json:"results"`
	Errors  map[int64]string `json:"errors"`
}

// OK reports whether every item in the batch succeeded.
func (o *Outcome) OK() bool {
	return len(o.Errors) == 0
}

// Settings is the read-only configuration snapshot a batch run operates
// under. Loaded once, never mutated mid-run.
type Settings struct {
	Model             string
	DescriptionPrompt string
	CategoryPrompt    string
}

// Processor iterates a product ID list and generates content one product at
// a time, in input order. Failures on one item never abort the rest.
type Processor struct {
	store        ProductStore
	descriptions *DescriptionGenerator
	categories   *CategoryGenerator
	settings     Settings
	logger       *logger.Logger
}

func NewProcessor(productStore ProductStore, descriptions *DescriptionGenerator, categories *CategoryGenerator, settings Settings, log *logger.Logger) *Processor {
	return &Processor{
		store:        productStore,
		descriptions: descriptions,
		categories:   categories,
		settings:     settings,
		logger:       log,
	}
}

// Process runs the batch. IDs are processed strictly sequentially; per-item
// errors land in the outcome's error map and processing continues with the
// next item.
func (p *Processor) Process(ctx context.Context, productIDs []int64, mode Mode) *Outcome {
	outcome := &Outcome{
		BatchID: uuid.New(),
		Results: make(map[int64]Result, len(productIDs)),
		Errors:  map[int64]string{},
	}

	p.logger.Info("Starting %s batch %s over %d products", mode, outcome.BatchID, len(productIDs))

	for _, id := range productIDs {
		product, err := p.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				outcome.Errors[id] = "Product not found"
			} else {
				outcome.Errors[id] = err.Error()
			}
			p.logger.Error("Skipping product %d: %v", id, err)
			continue
		}

		started := time.Now()
		record := &models.GenerationRecord{
			BatchID:   outcome.BatchID,
			ProductID: id,
			AIModel:   p.settings.Model,
		}

		var result Result
		switch mode {
		case ModeCategory:
			record.GenerationType = models.GenerationTypeCategory
			result, err = p.processCategories(ctx, product, record)
		default:
			record.GenerationType = models.GenerationTypeDescription
			result, err = p.processDescription(ctx, product, record)
		}

		record.DurationMs = time.Since(started).Milliseconds()

		if err != nil {
			message := err.Error()
			record.Status = models.GenerationStatusFailed
			record.ErrorMessage = &message
			outcome.Errors[id] = message
			p.logger.Error("Generation failed for product %d: %v", id, err)
		} else {
			record.Status = models.GenerationStatusSucceeded
			outcome.Results[id] = result
		}

		if recordErr := p.store.RecordGeneration(ctx, record); recordErr != nil {
			p.logger.Error("Failed to record generation for product %d: %v", id, recordErr)
		}
	}

	p.logger.Info("Batch %s finished: %d succeeded, %d failed", outcome.BatchID, len(outcome.Results), len(outcome.Errors))

	return outcome
}

func (p *Processor) processDescription(ctx context.Context, product *models.Product, record *models.GenerationRecord) (Result, error) {
	if product.Description != nil {
		record.OriginalValue = *product.Description
	}

	generation, err := p.descriptions.Generate(ctx, product.Name, p.settings.DescriptionPrompt, p.settings.Model)
	if err != nil {
		return Result{}, err
	}

	record.GeneratedValue = generation.Content

	if err := p.store.SetDescription(ctx, product.ID, generation.Content); err != nil {
		return Result{}, err
	}
	if err := p.store.AddTag(ctx, product.ID, models.TagDescUpdated); err != nil {
		return Result{}, err
	}
	if err := p.store.Save(ctx, product.ID); err != nil {
		return Result{}, err
	}

	return Result{
		ProductID:   product.ID,
		Description: generation.Content,
		Debug:       generation.Debug,
	}, nil
}

func (p *Processor) processCategories(ctx context.Context, product *models.Product, record *models.GenerationRecord) (Result, error) {
	generation, err := p.categories.Generate(ctx, product.Name, p.settings.CategoryPrompt, p.settings.Model)
	if err != nil {
		return Result{}, err
	}

	record.GeneratedValue = generation.RawText

	existing, err := p.store.GetCategoryIDs(ctx, product.ID)
	if err != nil {
		return Result{}, err
	}

	// Merge newly matched terms into the existing set.
	merged := append([]int64{}, existing...)
	for _, category := range generation.Categories {
		merged = append(merged, category.TermID)
	}

	if err := p.store.SetCategoryIDs(ctx, product.ID, merged); err != nil {
		return Result{}, err
	}
	if err := p.store.AddTag(ctx, product.ID, models.TagCatUpdated); err != nil {
		return Result{}, err
	}
	if err := p.store.Save(ctx, product.ID); err != nil {
		return Result{}, err
	}

	ids := make([]int64, 0, len(generation.Categories))
	for _, category := range generation.Categories {
		ids = append(ids, category.TermID)
	}

	return Result{
		ProductID:   product.ID,
		Categories:  generation.Categories,
		CategoryIDs: ids,
		RawText:     generation.RawText,
		Debug:       generation.Debug,
	}, nil
}
