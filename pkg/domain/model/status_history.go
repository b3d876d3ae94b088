package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/caseline/pkg/domain/types"
)

// StatusHistoryID is a UUID-based identifier for StatusHistoryEntry
type StatusHistoryID string

// NewStatusHistoryID generates a new UUID v4 StatusHistoryID
func NewStatusHistoryID() StatusHistoryID {
	return StatusHistoryID(uuid.New().String())
}

// StatusHistoryEntry records a case transitioning into Status at CreatedAt
type StatusHistoryEntry struct {
	ID        StatusHistoryID
	CaseID    int64
	Status    types.CaseStatus
	CreatedAt time.Time
}

// LatestStatusEntry returns the most recent entry whose status equals status,
// or nil if there is none. Entries need not be sorted; among entries with the
// same instant the first one wins.
func LatestStatusEntry(status types.CaseStatus, history []StatusHistoryEntry) *StatusHistoryEntry {
	var latest *StatusHistoryEntry
	for i := range history {
		if history[i].Status != status {
			continue
		}
		if latest == nil || history[i].CreatedAt.After(latest.CreatedAt) {
			latest = &history[i]
		}
	}
	return latest
}

// ResolveReferenceInstant returns when the case entered current. Falls back
// to createdAt when the history holds no transition into current, e.g. a case
// that never changed status or an incomplete log.
func ResolveReferenceInstant(current types.CaseStatus, createdAt time.Time, history []StatusHistoryEntry) time.Time {
	if latest := LatestStatusEntry(current, history); latest != nil {
		return latest.CreatedAt
	}
	return createdAt
}
