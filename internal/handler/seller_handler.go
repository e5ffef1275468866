package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// SellerLister lists profiles by role.
type SellerLister interface {
	ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error)
}

// SellerHandler exposes the seller directory used to match spreadsheet owners.
type SellerHandler struct {
	profiles SellerLister
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(profiles SellerLister) *SellerHandler {
	return &SellerHandler{profiles: profiles}
}

// List handles GET /v1/admin/sellers
func (h *SellerHandler) List(c *gin.Context) {
	sellers, err := h.profiles.ListByRole(c.Request.Context(), models.RoleSeller)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sellers")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list sellers")
		return
	}

	utils.SuccessList(c, 200, "Sellers", sellers, len(sellers))
}
