package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/model"
)

type statusHistoryRepository struct {
	mu      sync.RWMutex
	entries map[int64][]model.StatusHistoryEntry
}

func newStatusHistoryRepository() *statusHistoryRepository {
	return &statusHistoryRepository{
		entries: make(map[int64][]model.StatusHistoryEntry),
	}
}

func (r *statusHistoryRepository) Add(ctx context.Context, entry *model.StatusHistoryEntry) (*model.StatusHistoryEntry, error) {
	if entry == nil {
		return nil, goerr.New("status history entry is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *entry
	if created.ID == "" {
		created.ID = model.NewStatusHistoryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[created.CaseID] = append(r.entries[created.CaseID], created)
	return &created, nil
}

func (r *statusHistoryRepository) ListByCase(ctx context.Context, caseID int64) ([]model.StatusHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[caseID]
	result := make([]model.StatusHistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (r *statusHistoryRepository) ListByCases(ctx context.Context, caseIDs []int64) (map[int64][]model.StatusHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64][]model.StatusHistoryEntry)
	for _, id := range caseIDs {
		entries, ok := r.entries[id]
		if !ok || len(entries) == 0 {
			continue
		}
		copied := make([]model.StatusHistoryEntry, len(entries))
		copy(copied, entries)
		result[id] = copied
	}
	return result, nil
}

func (r *statusHistoryRepository) DeleteByCase(ctx context.Context, caseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, caseID)
	return nil
}
