package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// ProductStatus is the listing lifecycle state.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusArchived ProductStatus = "archived"
)

// Valid reports whether s is a known status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusSold, ProductStatusArchived:
		return true
	}
	return false
}

// Product is a seller listing. SKU is unique across all products.
type Product struct {
	ID          string          `db:"id" json:"id"`
	SellerID    string          `db:"seller_id" json:"sellerId"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Condition   *string         `db:"condition" json:"condition,omitempty"`
	BasePrice   float64         `db:"base_price" json:"basePrice"`
	Cost        float64         `db:"cost" json:"cost"`
	SKU         string          `db:"sku" json:"sku"`
	Status      ProductStatus   `db:"status" json:"status"`
	Images      pq.StringArray  `db:"images" json:"images"`
	Metadata    ProductMetadata `db:"metadata" json:"metadata"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// ProductMetadata is stored as jsonb. Imported products carry their sheet
// section, brand, model and purchase date.
type ProductMetadata struct {
	Section        string     `json:"section,omitempty"`
	Brand          string     `json:"brand,omitempty"`
	Model          string     `json:"model,omitempty"`
	DateOfPurchase *time.Time `json:"date_of_purchase"`
	ImportedAt     *time.Time `json:"imported_at,omitempty"`
}

// Value implements driver.Valuer for database storage
func (m ProductMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *ProductMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan ProductMetadata")
	}
	return json.Unmarshal(raw, m)
}

// CreateProductRequest is the body for creating a listing by hand.
type CreateProductRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Condition   *string       `json:"condition"`
	BasePrice   float64       `json:"basePrice" binding:"gte=0"`
	Cost        float64       `json:"cost" binding:"gte=0"`
	SKU         string        `json:"sku"`
	Status      ProductStatus `json:"status"`
	Images      []string      `json:"images"`
}
