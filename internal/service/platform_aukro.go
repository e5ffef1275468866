package service

import (
	"context"

	"github.com/GTDGit/resell_api/internal/models"
)

// AukroAdapter integrates with the Aukro marketplace.
type AukroAdapter struct {
	stubAdapter
	apiKey    string
	apiSecret string
}

// NewAukroAdapter creates an Aukro adapter.
func NewAukroAdapter(apiKey, apiSecret, webhookSecret string) *AukroAdapter {
	return &AukroAdapter{
		stubAdapter: newStubAdapter(models.PlatformAukro, 5, 1, webhookSecret),
		apiKey:      apiKey,
		apiSecret:   apiSecret,
	}
}

// Configured reports whether the key pair is present.
func (a *AukroAdapter) Configured() bool { return a.apiKey != "" && a.apiSecret != "" }

func (a *AukroAdapter) ListProducts(ctx context.Context) ([]models.PlatformProduct, error) {
	if err := a.wait(ctx, "listProducts"); err != nil {
		return nil, err
	}
	return []models.PlatformProduct{}, nil
}

func (a *AukroAdapter) GetProduct(ctx context.Context, platformProductID string) (*models.PlatformProduct, error) {
	if err := a.wait(ctx, "getProduct"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *AukroAdapter) CreateProduct(ctx context.Context, product *models.PlatformProduct) (*models.ListingRef, error) {
	if err := a.wait(ctx, "createProduct"); err != nil {
		return nil, err
	}
	return &models.ListingRef{ID: "mock-aukro-id"}, nil
}

func (a *AukroAdapter) UpdateProduct(ctx context.Context, platformProductID string, patch *models.PlatformProductPatch) error {
	return a.wait(ctx, "updateProduct")
}

func (a *AukroAdapter) DeleteProduct(ctx context.Context, platformProductID string) error {
	return a.wait(ctx, "deleteProduct")
}

func (a *AukroAdapter) SyncOrders(ctx context.Context) ([]models.PlatformOrder, error) {
	if err := a.wait(ctx, "syncOrders"); err != nil {
		return nil, err
	}
	return []models.PlatformOrder{}, nil
}
