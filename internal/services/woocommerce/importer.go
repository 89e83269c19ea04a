package woocommerce

import (
	"context"

	"whiskyai/internal/logger"
	"whiskyai/internal/models"
)

const importPageSize = 100

// Catalog is the slice of the product store the importer writes into.
type Catalog interface {
	UpsertProduct(ctx context.Context, product *models.Product) error
}

// Importer pages through the remote store and upserts products locally,
// keyed by the remote product ID.
type Importer struct {
	client  *Client
	catalog Catalog
	logger  *logger.Logger
}

func NewImporter(client *Client, catalog Catalog, log *logger.Logger) *Importer {
	return &Importer{
		client:  client,
		catalog: catalog,
		logger:  log,
	}
}

// Import pulls every product page and returns how many products were synced.
func (i *Importer) Import(ctx context.Context) (int, error) {
	imported := 0

	for page := 1; ; page++ {
		products, err := i.client.GetProducts(ctx, page, importPageSize)
		if err != nil {
			return imported, err
		}
		if len(products) == 0 {
			break
		}

		for _, remote := range products {
			product := &models.Product{
				ID:   remote.ID,
				Name: remote.Name,
			}
			if remote.Description != "" {
				description := remote.Description
				product.Description = &description
			}
			if remote.SKU != "" {
				sku := remote.SKU
				product.SKU = &sku
			}
			product.Price = remote.PriceValue()

			if err := i.catalog.UpsertProduct(ctx, product); err != nil {
				return imported, err
			}
			imported++
		}

		if len(products) < importPageSize {
			break
		}
	}

	i.logger.Info("Imported %d products from WooCommerce", imported)

	return imported, nil
}
