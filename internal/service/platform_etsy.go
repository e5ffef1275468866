package service

import (
	"context"

	"github.com/GTDGit/resell_api/internal/models"
)

// EtsyAdapter integrates with the Etsy Open API. Calls are stubbed and
// return empty results until the API client lands.
type EtsyAdapter struct {
	stubAdapter
	apiKey string
}

// NewEtsyAdapter creates an Etsy adapter. Etsy allows 10 requests per second.
func NewEtsyAdapter(apiKey, webhookSecret string) *EtsyAdapter {
	return &EtsyAdapter{
		stubAdapter: newStubAdapter(models.PlatformEtsy, 10, 1, webhookSecret),
		apiKey:      apiKey,
	}
}

// Configured reports whether an API key is present.
func (a *EtsyAdapter) Configured() bool { return a.apiKey != "" }

func (a *EtsyAdapter) ListProducts(ctx context.Context) ([]models.PlatformProduct, error) {
	if err := a.wait(ctx, "listProducts"); err != nil {
		return nil, err
	}
	return []models.PlatformProduct{}, nil
}

func (a *EtsyAdapter) GetProduct(ctx context.Context, platformProductID string) (*models.PlatformProduct, error) {
	if err := a.wait(ctx, "getProduct"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *EtsyAdapter) CreateProduct(ctx context.Context, product *models.PlatformProduct) (*models.ListingRef, error) {
	if err := a.wait(ctx, "createProduct"); err != nil {
		return nil, err
	}
	return &models.ListingRef{ID: "mock-etsy-id"}, nil
}

func (a *EtsyAdapter) UpdateProduct(ctx context.Context, platformProductID string, patch *models.PlatformProductPatch) error {
	return a.wait(ctx, "updateProduct")
}

func (a *EtsyAdapter) DeleteProduct(ctx context.Context, platformProductID string) error {
	return a.wait(ctx, "deleteProduct")
}

func (a *EtsyAdapter) SyncOrders(ctx context.Context) ([]models.PlatformOrder, error) {
	if err := a.wait(ctx, "syncOrders"); err != nil {
		return nil, err
	}
	return []models.PlatformOrder{}, nil
}
