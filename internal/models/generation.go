package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationType represents the kind of content being generated
type GenerationType string

const (
	GenerationTypeDescription GenerationType = "description"
	GenerationTypeCategory    GenerationType = "category"
)

// GenerationStatus represents the outcome of a single generation attempt
type GenerationStatus string

const (
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationRecord tracks every generation attempt against a product, both
// successes and failures, so the dashboard can show what happened per run.
type GenerationRecord struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BatchID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"batch_id"`
	ProductID      int64            `gorm:"not null;index" json:"product_id"`
	GenerationType GenerationType   `gorm:"type:varchar(20);not null;index" json:"generation_type"`
	Status         GenerationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	OriginalValue  string           `gorm:"type:text" json:"original_value"`
	GeneratedValue string           `gorm:"type:text" json:"generated_value"`
	AIModel        string           `gorm:"type:varchar(50);not null" json:"ai_model"`
	DurationMs     int64            `gorm:"type:bigint;default:0" json:"duration_ms"`
	ErrorMessage   *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TableName specifies the table name for GenerationRecord
func (GenerationRecord) TableName() string {
	return "generation_records"
}

// BeforeCreate hook to generate UUID if not set
func (r *GenerationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
