package models

import (
	"encoding/json"
	"time"
)

// PlatformType identifies an external marketplace.
type PlatformType string

const (
	PlatformEtsy   PlatformType = "etsy"
	PlatformMedusa PlatformType = "medusa"
	PlatformAukro  PlatformType = "aukro"
	PlatformOther  PlatformType = "other"
)

// SupportedPlatforms lists the platforms the factory can build adapters for.
var SupportedPlatforms = []PlatformType{PlatformEtsy, PlatformMedusa, PlatformAukro}

// PlatformProduct is a listing as represented on a marketplace.
type PlatformProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	PlatformID  string   `json:"platform_id,omitempty"`
	PlatformURL string   `json:"platform_url,omitempty"`
}

// PlatformOrder is a sale pulled from a marketplace.
type PlatformOrder struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	PlatformOrderID string    `json:"platform_order_id"`
	BuyerName       string    `json:"buyer_name"`
	BuyerEmail      string    `json:"buyer_email"`
	SalePrice       float64   `json:"sale_price"`
	PlatformFees    float64   `json:"platform_fees"`
	Status          string    `json:"status"`
	OrderDate       time.Time `json:"order_date"`
}

// SyncResult is the outcome of one full sync. The counts are omitted when the
// sync failed before they were known.
type SyncResult struct {
	Platform       PlatformType `json:"platform"`
	Success        bool         `json:"success"`
	ProductsSynced *int         `json:"products_synced,omitempty"`
	OrdersSynced   *int         `json:"orders_synced,omitempty"`
	Errors         []string     `json:"errors,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

// RecordsProcessed is products + orders, 0 when unknown.
func (r *SyncResult) RecordsProcessed() int {
	n := 0
	if r.ProductsSynced != nil {
		n += *r.ProductsSynced
	}
	if r.OrdersSynced != nil {
		n += *r.OrdersSynced
	}
	return n
}

// WebhookPayload is an inbound marketplace notification.
type WebhookPayload struct {
	Platform  PlatformType    `json:"platform"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	Signature string          `json:"signature,omitempty"`
}

// ListingRef identifies a listing created on a marketplace.
type ListingRef struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// PlatformProductPatch carries the fields to change on a marketplace
// listing; nil fields are left untouched.
type PlatformProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Images      []string `json:"images,omitempty"`
	Status      *string  `json:"status,omitempty"`
}
