package handlers

import (
	"context"
	"errors"
	"net/http"

	"whiskyai/internal/logger"
	"whiskyai/internal/openai"

	"github.com/gin-gonic/gin"
)

type keyVerifier interface {
	VerifyKey(ctx context.Context) error
}

// SettingsHandler verifies OpenAI credentials for the settings screen.
type SettingsHandler struct {
	logger *logger.Logger

	// newClient builds a client for a candidate key; swapped in tests.
	newClient func(apiKey string) keyVerifier
}

func NewSettingsHandler(log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		logger: log,
		newClient: func(apiKey string) keyVerifier {
			return openai.NewClient(apiKey, log)
		},
	}
}

type verifyKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// VerifyKey checks a candidate API key against the OpenAI models endpoint.
// POST /api/v1/settings/verify-key
func (h *SettingsHandler) VerifyKey(c *gin.Context) {
	var req verifyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "API key is required"})
		return
	}

	client := h.newClient(req.APIKey)
	if err := client.VerifyKey(c.Request.Context()); err != nil {
		h.logger.Error("API key verification failed: %v", err)

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusOK, gin.H{"verified": false, "error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
