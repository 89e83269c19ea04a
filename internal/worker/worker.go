package worker

import (
	"context"
	"encoding/json"
	"time"

	"whiskyai/internal/config"
	"whiskyai/internal/generator"
	"whiskyai/internal/logger"
	"whiskyai/internal/models"

	"github.com/segmentio/kafka-go"
)

// Event is a generation request published to the worker topic.
type Event struct {
	Type       string    `json:"type"` // "description", "category" or "fix_missing"
	ProductIDs []int64   `json:"product_ids,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Catalog is the store surface the worker uses to resolve "fix missing"
// input sets.
type Catalog interface {
	ProductIDs(ctx context.Context, remainingTag string) ([]int64, error)
}

// Worker consumes generation requests from Kafka and runs them through the
// same batch processor the API uses, so long batches stay off the request
// path. Events inside a batch are still processed one product at a time.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *generator.Processor
	catalog   Catalog
}

func New(cfg *config.Config, log *logger.Logger, processor *generator.Processor, catalog Catalog) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "whiskyai-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:    cfg,
		logger:    log,
		reader:    reader,
		processor: processor,
		catalog:   catalog,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for generation requests...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(context.Background(), event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) process(ctx context.Context, event Event) error {
	switch event.Type {
	case "category":
		outcome := w.processor.Process(ctx, event.ProductIDs, generator.ModeCategory)
		w.logger.Info("Category batch done: %d failed", len(outcome.Errors))
	case "fix_missing":
		missingDesc, err := w.catalog.ProductIDs(ctx, models.TagDescUpdated)
		if err != nil {
			return err
		}
		if len(missingDesc) > 0 {
			w.processor.Process(ctx, missingDesc, generator.ModeDescription)
		}
		missingCat, err := w.catalog.ProductIDs(ctx, models.TagCatUpdated)
		if err != nil {
			return err
		}
		if len(missingCat) > 0 {
			w.processor.Process(ctx, missingCat, generator.ModeCategory)
		}
	default:
		outcome := w.processor.Process(ctx, event.ProductIDs, generator.ModeDescription)
		w.logger.Info("Description batch done: %d failed", len(outcome.Errors))
	}
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
