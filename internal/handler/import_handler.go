package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/middleware"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/service"
	"github.com/GTDGit/resell_api/internal/utils"
)

// WorkbookImporter imports an uploaded spreadsheet.
type WorkbookImporter interface {
	ImportWorkbook(ctx context.Context, actor *models.Actor, filename string, data []byte, opts models.ImportOptions) (*models.ImportResult, error)
}

// ImportHandler handles bulk product import from spreadsheets.
type ImportHandler struct {
	importer       WorkbookImporter
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importer WorkbookImporter, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{importer: importer, maxUploadBytes: maxUploadBytes}
}

// Import handles POST /v1/admin/import/excel
// Form fields: file, status (draft|active), skipDuplicates, createSellers.
func (h *ImportHandler) Import(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(c, 413, "FILE_TOO_LARGE", "Uploaded file is too large")
			return
		}
		utils.Error(c, 400, "NO_FILE", "No file uploaded")
		return
	}

	opts := models.DefaultImportOptions()
	if status := strings.TrimSpace(c.PostForm("status")); status != "" {
		opts.DefaultStatus = models.ProductStatus(strings.ToLower(status))
		if opts.DefaultStatus != models.ProductStatusDraft && opts.DefaultStatus != models.ProductStatusActive {
			utils.Error(c, 400, "INVALID_STATUS", "Status must be draft or active")
			return
		}
	}
	opts.SkipDuplicates = c.PostForm("skipDuplicates") == "true"
	opts.CreateSellers = c.PostForm("createSellers") == "true"

	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to read uploaded file")
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.importer.ImportWorkbook(c.Request.Context(), actor, fileHeader.Filename, data, opts)
	if err != nil {
		var sheetErr *service.SheetFormatError
		switch {
		case errors.As(err, &sheetErr):
			utils.ErrorWithData(c, 400, "INVALID_FORMAT", sheetErr.Error(), sheetErr)
		case errors.Is(err, utils.ErrNoValidSheets):
			utils.Error(c, 400, "NO_VALID_SHEETS", "No valid sheets found. Expected sheets named Q1, Q2, Q3 or Q4")
		case errors.Is(err, utils.ErrInvalidWorkbook):
			utils.Error(c, 400, "INVALID_FILE", "File is not a valid Excel workbook")
		default:
			log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Import failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Import failed")
		}
		return
	}

	utils.Success(c, 200, "Import completed", result)
}

// Template handles GET /v1/admin/import/template
func (h *ImportHandler) Template(c *gin.Context) {
	data, err := service.BuildImportTemplate()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build import template")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to build template")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="import-template.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
