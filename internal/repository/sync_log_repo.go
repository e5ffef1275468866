package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/resell_api/internal/models"
)

// SyncLogRepository persists platform_sync_log rows.
type SyncLogRepository struct {
	db *sqlx.DB
}

// NewSyncLogRepository creates a new SyncLogRepository.
func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Create inserts an in-progress log row and fills id and start time.
func (r *SyncLogRepository) Create(ctx context.Context, l *models.SyncLog) error {
	const q = `
		INSERT INTO platform_sync_log (platform, sync_type, status, triggered_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sync_started_at`
	return r.db.QueryRowxContext(ctx, q, l.Platform, l.SyncType, l.Status, l.TriggeredBy).
		Scan(&l.ID, &l.SyncStartedAt)
}

// Complete writes the final state of a sync.
func (r *SyncLogRepository) Complete(ctx context.Context, id string, status models.SyncStatus, records int, errMsg *string, completedAt time.Time) error {
	const q = `
		UPDATE platform_sync_log
		SET status = $2, records_processed = $3, error_message = $4, sync_completed_at = $5
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status, records, errMsg, completedAt)
	return err
}

// List returns the most recent logs, optionally for one platform.
func (r *SyncLogRepository) List(ctx context.Context, platform string, limit int) ([]models.SyncLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
		SELECT id, platform, sync_type, status, records_processed, error_message,
			triggered_by, sync_started_at, sync_completed_at
		FROM platform_sync_log
		WHERE ($1 = '' OR platform = $1)
		ORDER BY sync_started_at DESC
		LIMIT $2`
	logs := []models.SyncLog{}
	if err := r.db.SelectContext(ctx, &logs, q, platform, limit); err != nil {
		return nil, err
	}
	return logs, nil
}
