package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// PlatformAdapter is the contract every marketplace integration satisfies.
type PlatformAdapter interface {
	// Platform returns the marketplace this adapter talks to.
	Platform() models.PlatformType

	// ListProducts returns the seller's listings on the marketplace.
	ListProducts(ctx context.Context) ([]models.PlatformProduct, error)

	// GetProduct returns one listing, or nil when it does not exist.
	GetProduct(ctx context.Context, platformProductID string) (*models.PlatformProduct, error)

	// CreateProduct publishes a listing and returns its marketplace id.
	CreateProduct(ctx context.Context, product *models.PlatformProduct) (*models.ListingRef, error)

	// UpdateProduct applies a partial update to a listing.
	UpdateProduct(ctx context.Context, platformProductID string, patch *models.PlatformProductPatch) error

	// DeleteProduct delists a listing.
	DeleteProduct(ctx context.Context, platformProductID string) error

	// SyncOrders pulls orders placed on the marketplace.
	SyncOrders(ctx context.Context) ([]models.PlatformOrder, error)

	// VerifyWebhook checks the signature of a raw webhook body.
	VerifyWebhook(payload []byte, signature string) bool

	// HandleWebhook processes a verified webhook.
	HandleWebhook(ctx context.Context, payload *models.WebhookPayload) error
}

// FullSync lists products and then pulls orders. Either failure fails the
// whole sync with no partial counts; it never panics.
func FullSync(ctx context.Context, adapter PlatformAdapter) (result *models.SyncResult) {
	platform := adapter.Platform()
	fail := func(msg string) *models.SyncResult {
		return &models.SyncResult{
			Platform:  platform,
			Success:   false,
			Errors:    []string{msg},
			Timestamp: time.Now().UTC(),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("platform", string(platform)).Msg("Full sync panicked")
			result = fail(fmt.Sprintf("%v", r))
		}
	}()

	products, err := adapter.ListProducts(ctx)
	if err != nil {
		return fail(errMessage(err))
	}
	orders, err := adapter.SyncOrders(ctx)
	if err != nil {
		return fail(errMessage(err))
	}

	productCount, orderCount := len(products), len(orders)
	return &models.SyncResult{
		Platform:       platform,
		Success:        true,
		ProductsSynced: &productCount,
		OrdersSynced:   &orderCount,
		Timestamp:      time.Now().UTC(),
	}
}

func errMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "Unknown error"
	}
	return err.Error()
}

// stubAdapter carries what every marketplace adapter shares: its platform
// id, an outbound rate limiter and the webhook secret.
type stubAdapter struct {
	platform      models.PlatformType
	limiter       *rate.Limiter
	webhookSecret string
}

func newStubAdapter(platform models.PlatformType, perSecond float64, burst int, webhookSecret string) stubAdapter {
	return stubAdapter{
		platform:      platform,
		limiter:       rate.NewLimiter(rate.Limit(perSecond), burst),
		webhookSecret: webhookSecret,
	}
}

func (a *stubAdapter) Platform() models.PlatformType {
	return a.platform
}

// wait blocks until the marketplace rate limit allows another call.
func (a *stubAdapter) wait(ctx context.Context, op string) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", a.platform, op, err)
	}
	log.Debug().Str("platform", string(a.platform)).Str("op", op).Msg("Platform call")
	return nil
}

// VerifyWebhook accepts any body when no secret is configured, otherwise it
// requires a hex HMAC-SHA256 of the raw body.
func (a *stubAdapter) VerifyWebhook(payload []byte, signature string) bool {
	if a.webhookSecret == "" {
		return true
	}
	return utils.VerifySignature(payload, signature, a.webhookSecret)
}

func (a *stubAdapter) HandleWebhook(ctx context.Context, payload *models.WebhookPayload) error {
	if payload == nil {
		return errors.New("empty webhook payload")
	}
	log.Info().
		Str("platform", string(a.platform)).
		Str("event_type", payload.EventType).
		Int("data_bytes", len(payload.Data)).
		Msg("Webhook received")
	return nil
}
