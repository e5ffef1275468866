package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/service"
)

// PlatformSyncRunner syncs every registered marketplace.
type PlatformSyncRunner interface {
	SyncAll(ctx context.Context, actor *models.Actor, syncType models.SyncType) []*models.SyncResult
}

// SyncWorker periodically runs a scheduled sync of all marketplaces.
type SyncWorker struct {
	syncService PlatformSyncRunner
	interval    time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncService PlatformSyncRunner, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncService: syncService,
		interval:    interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting marketplace sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Marketplace sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	start := time.Now()
	results := w.syncService.SyncAll(ctx, service.SystemActor, models.SyncTypeScheduled)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			log.Warn().Str("platform", string(r.Platform)).Strs("errors", r.Errors).Msg("Scheduled sync failed")
		}
	}

	log.Info().
		Int("platforms", len(results)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Scheduled marketplace sync completed")
}
