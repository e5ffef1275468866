package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
)

// SellerDirectory looks sellers up by display name, ignoring case.
type SellerDirectory interface {
	FindByDisplayName(ctx context.Context, name string) ([]models.Profile, error)
}

// SellerMap maps a spreadsheet owner name to the id of its seller profile.
type SellerMap map[string]string

// ResolveSellers looks up every distinct non-empty owner exactly once and
// returns the owners that matched a single profile. Owners that did not
// resolve produce a global (row 0) error each.
func ResolveSellers(ctx context.Context, dir SellerDirectory, rows []models.ImportRow, createSellers bool) (SellerMap, []models.ImportError) {
	sellers := SellerMap{}
	var errs []models.ImportError

	seen := map[string]bool{}
	for _, row := range rows {
		owner := strings.TrimSpace(row.Owner)
		if owner == "" || seen[owner] {
			continue
		}
		seen[owner] = true

		matches, err := dir.FindByDisplayName(ctx, owner)
		switch {
		case err != nil:
			log.Error().Err(err).Str("owner", owner).Msg("Seller lookup failed")
			errs = append(errs, models.ImportError{
				Row:   0,
				Error: fmt.Sprintf("Seller %q lookup failed: %v", owner, err),
			})
		case len(matches) == 1:
			sellers[owner] = matches[0].ID
		case len(matches) > 1:
			log.Warn().Str("owner", owner).Int("matches", len(matches)).Msg("Ambiguous seller name")
			errs = append(errs, models.ImportError{
				Row:   0,
				Error: fmt.Sprintf("Seller %q matches more than one profile. Make seller names unique first.", owner),
			})
		case createSellers:
			errs = append(errs, models.ImportError{
				Row:   0,
				Error: fmt.Sprintf("Seller %q not found. Please create seller account first.", owner),
			})
		default:
			errs = append(errs, models.ImportError{
				Row:   0,
				Error: fmt.Sprintf("Seller %q not found. Set createSellers: true to auto-create.", owner),
			})
		}
	}

	log.Debug().Int("owners", len(seen)).Int("matched", len(sellers)).Msg("Seller map resolved")
	return sellers, errs
}
