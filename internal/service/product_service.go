package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// ProductLister lists products, optionally for one seller.
type ProductLister interface {
	ProductStore
	List(ctx context.Context, sellerID string) ([]models.Product, error)
}

// manualSection tags SKUs of hand-entered products.
const manualSection = "MAN"

// ProductService serves the seller product endpoints.
type ProductService struct {
	products ProductLister
}

// NewProductService creates a ProductService.
func NewProductService(products ProductLister) *ProductService {
	return &ProductService{products: products}
}

// List returns the actor's own products, or all products for an admin.
func (s *ProductService) List(ctx context.Context, actor *models.Actor) ([]models.Product, error) {
	if actor == nil {
		return nil, utils.ErrInvalidToken
	}
	sellerID := actor.UserID
	if actor.IsAdmin() {
		sellerID = ""
	}
	return s.products.List(ctx, sellerID)
}

// Create stores a product owned by the actor. Status defaults to draft and a
// SKU is generated from the title when none is given.
func (s *ProductService) Create(ctx context.Context, actor *models.Actor, req *models.CreateProductRequest) (*models.Product, error) {
	if actor == nil {
		return nil, utils.ErrInvalidToken
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		brand, model, _ := strings.Cut(strings.TrimSpace(req.Title), " ")
		if model == "" {
			model = brand
		}
		sku = GenerateSKU(brand, model, manualSection)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Uncategorized"
	}

	p := &models.Product{
		SellerID:    actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    category,
		Condition:   req.Condition,
		BasePrice:   req.BasePrice,
		Cost:        req.Cost,
		SKU:         sku,
		Status:      status,
		Images:      pq.StringArray(req.Images),
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
