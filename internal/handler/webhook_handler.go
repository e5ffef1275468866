package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/utils"
)

const maxWebhookBody = 1 << 20

// WebhookProcessor verifies and dispatches a raw marketplace webhook.
type WebhookProcessor interface {
	Handle(ctx context.Context, platform string, body []byte, signature string) error
}

// WebhookHandler handles incoming marketplace webhooks.
type WebhookHandler struct {
	webhooks WebhookProcessor
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(webhooks WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Handle handles POST /webhooks/:platform
func (h *WebhookHandler) Handle(c *gin.Context) {
	platform := c.Param("platform")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid body")
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		signature = c.GetHeader("X-Webhook-Signature")
	}

	if err := h.webhooks.Handle(c.Request.Context(), platform, body, signature); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidSignature):
			utils.Error(c, 401, "INVALID_SIGNATURE", "Invalid webhook signature")
		case errors.Is(err, utils.ErrUnsupportedPlatform):
			utils.Error(c, 400, "UNSUPPORTED_PLATFORM", err.Error())
		case errors.Is(err, utils.ErrInvalidPayload):
			utils.Error(c, 400, "INVALID_PAYLOAD", "Invalid webhook payload")
		default:
			log.Error().Err(err).Str("platform", platform).Msg("Failed to process webhook")
			utils.Error(c, 500, "INTERNAL_ERROR", "Processing failed")
		}
		return
	}

	c.JSON(200, gin.H{"received": true})
}
