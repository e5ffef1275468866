package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/sse"
	"github.com/GTDGit/resell_api/internal/utils"
)

// ProductStore is the product persistence the importer needs.
type ProductStore interface {
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

// WorkbookArchive keeps a copy of uploaded workbooks.
type WorkbookArchive interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportService turns spreadsheet rows into draft product listings.
type ImportService struct {
	sellers  SellerDirectory
	products ProductStore
	archive  WorkbookArchive
	notifier sse.Notifier
	now      func() time.Time
}

// NewImportService creates an ImportService. archive may be nil.
func NewImportService(sellers SellerDirectory, products ProductStore, archive WorkbookArchive, notifier sse.Notifier) *ImportService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &ImportService{
		sellers:  sellers,
		products: products,
		archive:  archive,
		notifier: notifier,
		now:      time.Now,
	}
}

// ImportWorkbook parses an uploaded workbook, archives it and imports its
// rows. Structural problems with the workbook are returned as errors
// (*SheetFormatError, utils.ErrNoValidSheets, utils.ErrInvalidWorkbook);
// row-level problems are reported in the result.
func (s *ImportService) ImportWorkbook(ctx context.Context, actor *models.Actor, filename string, data []byte, opts models.ImportOptions) (*models.ImportResult, error) {
	rows, err := ParseWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filename).Int("rows", len(rows)).Msg("Workbook parsed")

	if s.archive != nil {
		key := s.archiveKey(actor, filename)
		if _, err := s.archive.Store(ctx, key, data, xlsxContentType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to archive workbook")
		}
	}

	result := s.ImportProducts(ctx, rows, opts)

	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	s.notifier.NotifyImportCompleted(actorID, result)
	return result, nil
}

func (s *ImportService) archiveKey(actor *models.Actor, filename string) string {
	who := "anonymous"
	if actor != nil && actor.UserID != "" {
		who = actor.UserID
	}
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "workbook.xlsx"
	}
	return fmt.Sprintf("%s/%s-%s", who, s.now().UTC().Format("20060102T150405"), name)
}

// ImportProducts creates one product per valid row. Sellers are resolved once
// up front; each row then either imports or is skipped, and a failing row
// never stops the run. Every row is counted exactly once in Imported or
// Skipped.
func (s *ImportService) ImportProducts(ctx context.Context, rows []models.ImportRow, opts models.ImportOptions) *models.ImportResult {
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = models.ProductStatusDraft
	}

	result := &models.ImportResult{Errors: []models.ImportError{}}

	sellers, sellerErrs := ResolveSellers(ctx, s.sellers, rows, opts.CreateSellers)
	result.Errors = append(result.Errors, sellerErrs...)

	for i, row := range rows {
		rowNumber := i + 2

		if err := ctx.Err(); err != nil {
			remaining := len(rows) - i
			result.Skipped += remaining
			result.Errors = append(result.Errors, models.ImportError{
				Row:   0,
				Error: fmt.Sprintf("Import cancelled, %d rows not processed: %v", remaining, err),
			})
			break
		}

		imported, err := s.importRow(ctx, row, sellers, opts)
		if err != nil {
			result.Errors = append(result.Errors, models.ImportError{Row: rowNumber, Error: err.Error()})
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	result.Success = result.Imported > 0
	log.Info().
		Int("rows", len(rows)).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("Import finished")
	return result
}

// importRow reports whether the row produced a product. A nil error with
// imported=false is a silent duplicate skip.
func (s *ImportService) importRow(ctx context.Context, row models.ImportRow, sellers SellerMap, opts models.ImportOptions) (imported bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			imported = false
			err = fmt.Errorf("Unexpected error: %v", r)
		}
	}()

	brand := strings.TrimSpace(row.Brand)
	model := strings.TrimSpace(row.Model)
	owner := strings.TrimSpace(row.Owner)

	if brand == "" || model == "" {
		return false, errors.New("Missing required fields: Brand and Model")
	}
	if owner == "" {
		return false, errors.New("Missing Owner field")
	}
	sellerID, ok := sellers[owner]
	if !ok {
		return false, fmt.Errorf("Seller %q not found in system", owner)
	}

	now := s.now()
	sku := generateSKUAt(brand, model, row.Section, now)

	if opts.SkipDuplicates {
		existing, err := s.products.GetBySKU(ctx, sku)
		if err != nil {
			log.Warn().Err(err).Str("sku", sku).Msg("Duplicate check failed, inserting anyway")
		} else if existing != nil {
			log.Debug().Str("sku", sku).Msg("Skipping duplicate SKU")
			return false, nil
		}
	}

	cost := ParseAmount(row.PaidAmount)
	category := strings.TrimSpace(row.Category)
	descCategory := category
	if descCategory == "" {
		descCategory = "Camera"
	}
	if category == "" {
		category = "Uncategorized"
	}
	importedAt := now.UTC()

	product := &models.Product{
		SellerID:    sellerID,
		Title:       brand + " " + model,
		Description: fmt.Sprintf("%s - %s %s", descCategory, brand, model),
		Category:    category,
		BasePrice:   MarkupPrice(cost),
		Cost:        cost,
		SKU:         sku,
		Status:      opts.DefaultStatus,
		Metadata: models.ProductMetadata{
			Section:        row.Section,
			Brand:          brand,
			Model:          model,
			DateOfPurchase: ParseDate(row.DateOfPurchase),
			ImportedAt:     &importedAt,
		},
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, utils.ErrDuplicateSKU) {
			return false, fmt.Errorf("Database error: duplicate SKU %s", sku)
		}
		return false, fmt.Errorf("Database error: %v", err)
	}
	return true, nil
}
