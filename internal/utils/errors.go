package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrForbidden           = errors.New("FORBIDDEN")
	ErrUnsupportedPlatform = errors.New("UNSUPPORTED_PLATFORM")
	ErrSyncInProgress      = errors.New("SYNC_IN_PROGRESS")
	ErrNoValidSheets       = errors.New("NO_VALID_SHEETS")
	ErrInvalidWorkbook     = errors.New("INVALID_WORKBOOK")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrSellerNotFound      = errors.New("SELLER_NOT_FOUND")
	ErrAmbiguousSeller     = errors.New("AMBIGUOUS_SELLER")
	ErrDuplicateSKU        = errors.New("DUPLICATE_SKU")
	ErrInvalidSignature    = errors.New("INVALID_SIGNATURE")
	ErrInvalidPayload      = errors.New("INVALID_PAYLOAD")
)
