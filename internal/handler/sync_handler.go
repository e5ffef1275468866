package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/middleware"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// PlatformSyncer runs and reports marketplace syncs.
type PlatformSyncer interface {
	SyncPlatform(ctx context.Context, actor *models.Actor, platform string, syncType models.SyncType) (*models.SyncResult, error)
	LastResult(ctx context.Context, platform string) (*models.SyncResult, error)
	ListLogs(ctx context.Context, platform string, limit int) ([]models.SyncLog, error)
}

// SyncHandler exposes marketplace sync to admins.
type SyncHandler struct {
	syncService PlatformSyncer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService PlatformSyncer) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync handles POST /v1/admin/sync/:platform
func (h *SyncHandler) Sync(c *gin.Context) {
	platform := c.Param("platform")

	result, err := h.syncService.SyncPlatform(c.Request.Context(), middleware.GetActor(c), platform, models.SyncTypeManual)
	if err != nil {
		writeSyncError(c, platform, err)
		return
	}

	utils.Success(c, 200, "Sync completed", result)
}

// Last handles GET /v1/admin/sync/:platform
func (h *SyncHandler) Last(c *gin.Context) {
	platform := c.Param("platform")

	result, err := h.syncService.LastResult(c.Request.Context(), platform)
	if err != nil {
		writeSyncError(c, platform, err)
		return
	}
	if result == nil {
		utils.Error(c, 404, "NOT_FOUND", "No sync has run for this platform yet")
		return
	}

	utils.Success(c, 200, "Last sync result", result)
}

// Logs handles GET /v1/admin/sync-logs?platform=&limit=
func (h *SyncHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.syncService.ListLogs(c.Request.Context(), c.Query("platform"), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sync logs")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list sync logs")
		return
	}

	utils.SuccessList(c, 200, "Sync logs", logs, len(logs))
}

func writeSyncError(c *gin.Context, platform string, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidToken):
		utils.Error(c, 401, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, utils.ErrForbidden):
		utils.Error(c, 403, "FORBIDDEN", "Admin access required")
	case errors.Is(err, utils.ErrUnsupportedPlatform):
		utils.Error(c, 400, "UNSUPPORTED_PLATFORM", err.Error())
	case errors.Is(err, utils.ErrSyncInProgress):
		utils.Error(c, 409, "SYNC_IN_PROGRESS", "A sync for this platform is already running")
	default:
		log.Error().Err(err).Str("platform", platform).Msg("Sync request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Sync failed")
	}
}
