package service

import (
	"context"
	"strings"

	"github.com/GTDGit/resell_api/internal/models"
)

// MedusaAdapter integrates with a self-hosted Medusa store.
type MedusaAdapter struct {
	stubAdapter
	baseURL string
	apiKey  string
}

// NewMedusaAdapter creates a Medusa adapter for the store at baseURL.
func NewMedusaAdapter(baseURL, apiKey, webhookSecret string) *MedusaAdapter {
	return &MedusaAdapter{
		stubAdapter: newStubAdapter(models.PlatformMedusa, 20, 5, webhookSecret),
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
	}
}

// Configured reports whether both the store URL and API key are present.
func (a *MedusaAdapter) Configured() bool { return a.baseURL != "" && a.apiKey != "" }

func (a *MedusaAdapter) ListProducts(ctx context.Context) ([]models.PlatformProduct, error) {
	if err := a.wait(ctx, "listProducts"); err != nil {
		return nil, err
	}
	return []models.PlatformProduct{}, nil
}

func (a *MedusaAdapter) GetProduct(ctx context.Context, platformProductID string) (*models.PlatformProduct, error) {
	if err := a.wait(ctx, "getProduct"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *MedusaAdapter) CreateProduct(ctx context.Context, product *models.PlatformProduct) (*models.ListingRef, error) {
	if err := a.wait(ctx, "createProduct"); err != nil {
		return nil, err
	}
	ref := &models.ListingRef{ID: "mock-medusa-id"}
	if a.baseURL != "" {
		ref.URL = a.baseURL + "/products/" + ref.ID
	}
	return ref, nil
}

func (a *MedusaAdapter) UpdateProduct(ctx context.Context, platformProductID string, patch *models.PlatformProductPatch) error {
	return a.wait(ctx, "updateProduct")
}

func (a *MedusaAdapter) DeleteProduct(ctx context.Context, platformProductID string) error {
	return a.wait(ctx, "deleteProduct")
}

func (a *MedusaAdapter) SyncOrders(ctx context.Context) ([]models.PlatformOrder, error) {
	if err := a.wait(ctx, "syncOrders"); err != nil {
		return nil, err
	}
	return []models.PlatformOrder{}, nil
}
