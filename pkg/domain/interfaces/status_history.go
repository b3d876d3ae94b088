package interfaces

import (
	"context"

	"github.com/secmon-lab/caseline/pkg/domain/model"
)

// StatusHistoryRepository defines the interface for case status transition records.
// Entries are append-only; callers must not rely on the order of returned entries.
type StatusHistoryRepository interface {
	// Add appends an entry to the history of entry.CaseID. An empty ID is generated.
	Add(ctx context.Context, entry *model.StatusHistoryEntry) (*model.StatusHistoryEntry, error)

	// ListByCase retrieves all entries of a case. A case without history yields an empty slice.
	ListByCase(ctx context.Context, caseID int64) ([]model.StatusHistoryEntry, error)

	// ListByCases retrieves entries for multiple cases (for batch operations)
	// Returns a map of case ID to entries. Cases without history are not included in the map.
	ListByCases(ctx context.Context, caseIDs []int64) (map[int64][]model.StatusHistoryEntry, error)

	// DeleteByCase deletes all entries of a case
	DeleteByCase(ctx context.Context, caseID int64) error
}
