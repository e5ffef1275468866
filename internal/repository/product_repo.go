package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

const productColumns = `id, seller_id, title, description, category, condition, base_price, cost,
	sku, status, images, metadata, created_at, updated_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product and fills id and timestamps. A unique violation on
// sku is reported as utils.ErrDuplicateSKU.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
		INSERT INTO products (seller_id, title, description, category, condition,
			base_price, cost, sku, status, images, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	if p.Images == nil {
		p.Images = pq.StringArray{}
	}
	err := r.db.QueryRowxContext(ctx, q,
		p.SellerID, p.Title, p.Description, p.Category, p.Condition,
		p.BasePrice, p.Cost, p.SKU, p.Status, p.Images, p.Metadata,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return utils.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

// GetBySKU returns the product with the given sku, or nil when none exists.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE sku = $1 LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns products newest first. An empty sellerID lists every seller.
func (r *ProductRepository) List(ctx context.Context, sellerID string) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR seller_id::text = $1)
		ORDER BY created_at DESC`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, sellerID); err != nil {
		return nil, err
	}
	return products, nil
}
