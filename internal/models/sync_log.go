package models

import "time"

// SyncType says what started a sync.
type SyncType string

const (
	SyncTypeManual    SyncType = "manual"
	SyncTypeScheduled SyncType = "scheduled"
	SyncTypeWebhook   SyncType = "webhook"
)

// SyncStatus is the lifecycle state of a sync log row.
type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in-progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusFailure    SyncStatus = "failure"
)

// SyncLog records one sync attempt in platform_sync_log.
type SyncLog struct {
	ID               string       `db:"id" json:"id"`
	Platform         PlatformType `db:"platform" json:"platform"`
	SyncType         SyncType     `db:"sync_type" json:"syncType"`
	Status           SyncStatus   `db:"status" json:"status"`
	RecordsProcessed int          `db:"records_processed" json:"recordsProcessed"`
	ErrorMessage     *string      `db:"error_message" json:"errorMessage,omitempty"`
	TriggeredBy      *string      `db:"triggered_by" json:"triggeredBy,omitempty"`
	SyncStartedAt    time.Time    `db:"sync_started_at" json:"syncStartedAt"`
	SyncCompletedAt  *time.Time   `db:"sync_completed_at" json:"syncCompletedAt,omitempty"`
}
