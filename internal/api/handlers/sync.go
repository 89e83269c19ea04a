package handlers

import (
	"context"
	"net/http"

	"whiskyai/internal/logger"

	"github.com/gin-gonic/gin"
)

// CatalogImporter pulls the remote store's products into the local catalog.
type CatalogImporter interface {
	Import(ctx context.Context) (int, error)
}

// SyncHandler triggers a WooCommerce catalog import.
type SyncHandler struct {
	importer CatalogImporter
	logger   *logger.Logger
}

func NewSyncHandler(importer CatalogImporter, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		importer: importer,
		logger:   log,
	}
}

// Sync imports the remote catalog.
// POST /api/v1/sync
func (h *SyncHandler) Sync(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WooCommerce store is not configured"})
		return
	}

	imported, err := h.importer.Import(c.Request.Context())
	if err != nil {
		h.logger.Error("Catalog sync failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed", "details": err.Error(), "imported": imported})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
