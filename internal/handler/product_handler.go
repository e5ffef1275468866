package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/middleware"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// ProductManager lists and creates products for the current actor.
type ProductManager interface {
	List(ctx context.Context, actor *models.Actor) ([]models.Product, error)
	Create(ctx context.Context, actor *models.Actor, req *models.CreateProductRequest) (*models.Product, error)
}

// ProductHandler serves seller product endpoints.
type ProductHandler struct {
	productService ProductManager
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService ProductManager) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			utils.Error(c, 401, "UNAUTHORIZED", "Authentication required")
			return
		}
		log.Error().Err(err).Msg("Failed to list products")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list products")
		return
	}

	utils.SuccessList(c, 200, "Products", products, len(products))
}

// Create handles POST /v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		utils.Error(c, 400, "INVALID_STATUS", "Unknown product status")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidToken):
			utils.Error(c, 401, "UNAUTHORIZED", "Authentication required")
		case errors.Is(err, utils.ErrDuplicateSKU):
			utils.Error(c, 409, "DUPLICATE_SKU", "A product with this SKU already exists")
		default:
			log.Error().Err(err).Msg("Failed to create product")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		}
		return
	}

	utils.Success(c, 201, "Product created", product)
}
