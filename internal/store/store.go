package store

import (
	"context"
	"errors"
	"time"

	"whiskyai/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound means a product ID does not resolve to a catalog row.
var ErrNotFound = errors.New("product not found")

// ProductStore is the GORM-backed catalog the batch processor reads from and
// writes its effects into.
type ProductStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) SetDescription(ctx context.Context, id int64, text string) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("description", text).Error
}

func (s *ProductStore) GetCategoryIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&models.ProductCategoryTerm{}).
		Where("product_id = ?", id).
		Order("term_id").
		Pluck("term_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetCategoryIDs replaces the product's category term set. Duplicates in the
// input are collapsed on write.
func (s *ProductStore) SetCategoryIDs(ctx context.Context, id int64, termIDs []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).
			Delete(&models.ProductCategoryTerm{}).Error; err != nil {
			return err
		}
		seen := map[int64]bool{}
		for _, termID := range termIDs {
			if seen[termID] {
				continue
			}
			seen[termID] = true
			term := models.ProductCategoryTerm{ProductID: id, TermID: termID}
			if err := tx.Create(&term).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ProductStore) AddTag(ctx context.Context, id int64, tag string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductTag{ProductID: id, Tag: tag}).Error
}

func (s *ProductStore) HasTag(ctx context.Context, id int64, tag string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ProductTag{}).
		Where("product_id = ? AND tag = ?", id, tag).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save bumps the product's updated_at, the equivalent of the shop's save
// step after field mutations.
func (s *ProductStore) Save(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// ProductIDs lists catalog IDs in insertion order. With remainingTag set it
// excludes products already carrying that processed marker; the
// remaining-only filter is applied here, at the query boundary, never inside
// the batch loop.
func (s *ProductStore) ProductIDs(ctx context.Context, remainingTag string) ([]int64, error) {
	var ids []int64
	query := s.db.WithContext(ctx).Model(&models.Product{}).Order("id")
	if remainingTag != "" {
		query = query.Where(
			"id NOT IN (?)",
			s.db.Model(&models.ProductTag{}).Select("product_id").Where("tag = ?", remainingTag),
		)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ProductSummary is the id/name pair the dashboard product picker needs.
type ProductSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductSummaries lists id/name pairs, optionally excluding products that
// already carry the given processed marker.
func (s *ProductStore) ProductSummaries(ctx context.Context, remainingTag string) ([]ProductSummary, error) {
	var summaries []ProductSummary
	query := s.db.WithContext(ctx).Model(&models.Product{}).Order("id")
	if remainingTag != "" {
		query = query.Where(
			"id NOT IN (?)",
			s.db.Model(&models.ProductTag{}).Select("product_id").Where("tag = ?", remainingTag),
		)
	}
	if err := query.Select("id", "name").Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *ProductStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (s *ProductStore) CountWithTag(ctx context.Context, tag string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ProductTag{}).
		Where("tag = ?", tag).
		Count(&count).Error
	return count, err
}

// RecordGeneration persists one generation attempt for the history view.
func (s *ProductStore) RecordGeneration(ctx context.Context, record *models.GenerationRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// UpsertProduct inserts or refreshes a product row keyed by the remote ID.
func (s *ProductStore) UpsertProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "sku", "price", "updated_at"}),
		}).
		Create(product).Error
}
