package models

import (
	"time"
)

// Product mirrors the WooCommerce product fields this service touches. The
// primary key is the external store's numeric product ID so batch requests
// can address products by the IDs the shop already uses.
type Product struct {
	ID          int64     `json:"id" gorm:"primary_key"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	SKU         *string   `json:"sku"`
	Price       *float64  `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductTag is a flat taxonomy term attached to a product. The processed
// markers (DescUpdated, CatUpdated) live here alongside ordinary tags.
type ProductTag struct {
	ProductID int64  `json:"product_id" gorm:"primaryKey"`
	Tag       string `json:"tag" gorm:"primaryKey"`
}

// ProductCategoryTerm links a product to an external taxonomy term ID, the
// numeric identifiers the flavor category table maps names onto.
type ProductCategoryTerm struct {
	ProductID int64 `json:"product_id" gorm:"primaryKey"`
	TermID    int64 `json:"term_id" gorm:"primaryKey"`
}

// Processed markers applied after a successful generation.
const (
	TagDescUpdated = "DescUpdated"
	TagCatUpdated  = "CatUpdated"
)
