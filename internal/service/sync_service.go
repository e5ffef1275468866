package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/sse"
	"github.com/GTDGit/resell_api/internal/utils"
)

// SyncLogStore persists the platform_sync_log lifecycle.
type SyncLogStore interface {
	Create(ctx context.Context, l *models.SyncLog) error
	Complete(ctx context.Context, id string, status models.SyncStatus, records int, errMsg *string, completedAt time.Time) error
	List(ctx context.Context, platform string, limit int) ([]models.SyncLog, error)
}

// SyncGuard serializes syncs per platform and remembers the last result.
type SyncGuard interface {
	Acquire(ctx context.Context, platform models.PlatformType) (release func(), ok bool, err error)
	SaveResult(ctx context.Context, result *models.SyncResult) error
	LastResult(ctx context.Context, platform models.PlatformType) (*models.SyncResult, error)
}

// SystemActor is used by scheduled syncs.
var SystemActor = &models.Actor{Role: models.RoleAdmin}

// SyncService runs marketplace syncs and records them in the sync log.
type SyncService struct {
	factory  *PlatformFactory
	logs     SyncLogStore
	guard    SyncGuard
	notifier sse.Notifier
}

// NewSyncService creates a SyncService. guard may be nil.
func NewSyncService(factory *PlatformFactory, logs SyncLogStore, guard SyncGuard, notifier sse.Notifier) *SyncService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &SyncService{
		factory:  factory,
		logs:     logs,
		guard:    guard,
		notifier: notifier,
	}
}

// SyncPlatform runs a full sync of one platform on behalf of an admin.
// The returned error covers only the preconditions (auth, unknown platform,
// a sync already running); a failed sync is a result with Success false.
func (s *SyncService) SyncPlatform(ctx context.Context, actor *models.Actor, platform string, syncType models.SyncType) (*models.SyncResult, error) {
	if actor == nil {
		return nil, utils.ErrInvalidToken
	}
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}

	adapter, err := s.factory.CreateAdapter(platform)
	if err != nil {
		return nil, err
	}
	p := adapter.Platform()

	if s.guard != nil {
		release, ok, err := s.guard.Acquire(ctx, p)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("platform", string(p)).Msg("Sync lock unavailable, continuing without it")
		case !ok:
			return nil, utils.ErrSyncInProgress
		default:
			defer release()
		}
	}

	entry := &models.SyncLog{
		Platform: p,
		SyncType: syncType,
		Status:   models.SyncStatusInProgress,
	}
	if actor.UserID != "" {
		uid := actor.UserID
		entry.TriggeredBy = &uid
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("platform", string(p)).Msg("Failed to create sync log")
		entry.ID = ""
	}

	log.Info().Str("platform", string(p)).Str("sync_type", string(syncType)).Msg("Sync started")
	result := FullSync(ctx, adapter)

	if entry.ID != "" {
		status := models.SyncStatusSuccess
		if !result.Success {
			status = models.SyncStatusFailure
		}
		var errMsg *string
		if len(result.Errors) > 0 {
			joined := strings.Join(result.Errors, ", ")
			errMsg = &joined
		}
		// The sync itself is done; do not let a cancelled request skip the bookkeeping.
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := s.logs.Complete(bg, entry.ID, status, result.RecordsProcessed(), errMsg, time.Now().UTC()); err != nil {
			log.Error().Err(err).Str("sync_log_id", entry.ID).Msg("Failed to complete sync log")
		}
		cancel()
	}

	if s.guard != nil {
		if err := s.guard.SaveResult(context.WithoutCancel(ctx), result); err != nil {
			log.Warn().Err(err).Str("platform", string(p)).Msg("Failed to cache sync result")
		}
	}

	log.Info().
		Str("platform", string(p)).
		Bool("success", result.Success).
		Int("records", result.RecordsProcessed()).
		Msg("Sync finished")

	s.notifier.NotifySyncCompleted(actor.UserID, result)
	return result, nil
}

// SyncAll syncs every registered platform in turn, skipping platforms that
// are already syncing.
func (s *SyncService) SyncAll(ctx context.Context, actor *models.Actor, syncType models.SyncType) []*models.SyncResult {
	var results []*models.SyncResult
	for _, adapter := range s.factory.AllAdapters() {
		if ctx.Err() != nil {
			break
		}
		res, err := s.SyncPlatform(ctx, actor, string(adapter.Platform()), syncType)
		if err != nil {
			if errors.Is(err, utils.ErrSyncInProgress) {
				log.Info().Str("platform", string(adapter.Platform())).Msg("Sync already running, skipped")
				continue
			}
			log.Error().Err(err).Str("platform", string(adapter.Platform())).Msg("Sync failed to start")
			continue
		}
		results = append(results, res)
	}
	return results
}

// LastResult returns the cached result of the most recent sync of platform.
func (s *SyncService) LastResult(ctx context.Context, platform string) (*models.SyncResult, error) {
	adapter, err := s.factory.CreateAdapter(platform)
	if err != nil {
		return nil, err
	}
	if s.guard == nil {
		return nil, nil
	}
	return s.guard.LastResult(ctx, adapter.Platform())
}

// ListLogs returns recent sync log entries.
func (s *SyncService) ListLogs(ctx context.Context, platform string, limit int) ([]models.SyncLog, error) {
	return s.logs.List(ctx, strings.ToLower(strings.TrimSpace(platform)), limit)
}
