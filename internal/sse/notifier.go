package sse

import (
	"time"

	"github.com/GTDGit/resell_api/internal/models"
)

// Notifier is the interface services use to emit admin events.
type Notifier interface {
	NotifyImportCompleted(actorID string, result *models.ImportResult)
	NotifySyncCompleted(actorID string, result *models.SyncResult)
}

// HubNotifier implements Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyImportCompleted(actorID string, result *models.ImportResult) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&Event{Event: EventImportCompleted, ActorID: actorID, Import: result, Timestamp: time.Now()})
}

func (n *HubNotifier) NotifySyncCompleted(actorID string, result *models.SyncResult) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&Event{Event: EventSyncCompleted, ActorID: actorID, Sync: result, Timestamp: time.Now()})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) NotifyImportCompleted(string, *models.ImportResult) {}
func (NopNotifier) NotifySyncCompleted(string, *models.SyncResult)    {}
