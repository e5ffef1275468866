package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// WebhookService routes inbound marketplace webhooks to their adapter.
type WebhookService struct {
	factory *PlatformFactory
}

// NewWebhookService creates a WebhookService.
func NewWebhookService(factory *PlatformFactory) *WebhookService {
	return &WebhookService{factory: factory}
}

// Handle verifies the signature over the raw body and then hands the decoded
// payload to the platform adapter.
func (s *WebhookService) Handle(ctx context.Context, platform string, body []byte, signature string) error {
	adapter, err := s.factory.CreateAdapter(platform)
	if err != nil {
		return err
	}

	if !adapter.VerifyWebhook(body, signature) {
		log.Warn().Str("platform", platform).Msg("Webhook signature rejected")
		return utils.ErrInvalidSignature
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidPayload, err)
	}
	payload.Platform = adapter.Platform()
	payload.Signature = signature

	return adapter.HandleWebhook(ctx, &payload)
}
