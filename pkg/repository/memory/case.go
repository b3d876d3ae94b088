package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
)

type caseRepository struct {
	mu     sync.RWMutex
	cases  map[int64]*model.Case
	nextID int64
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases:  make(map[int64]*model.Case),
		nextID: 1,
	}
}

// copyCase creates a copy of a case so callers never share stored state
func copyCase(c *model.Case) *model.Case {
	copied := *c
	return &copied
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCase(c)
	created.ID = r.nextID
	// Imported cases keep their original creation time
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = now
	}
	created.Priority = created.Priority.Normalize()
	r.nextID++

	r.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	return copyCase(c), nil
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := interfaces.BuildListCaseConfig(opts...)

	cases := make([]*model.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if status := cfg.Status(); status != nil && c.Status != *status {
			continue
		}
		cases = append(cases, copyCase(c))
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID < cases[j].ID
	})

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.cases[c.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
	}

	updated := copyCase(c)
	updated.CreatedAt = existing.CreatedAt
	if updated.UpdatedAt.IsZero() {
		updated.UpdatedAt = time.Now().UTC()
	}
	updated.Priority = updated.Priority.Normalize()

	r.cases[updated.ID] = updated
	return copyCase(updated), nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[id]; !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	delete(r.cases, id)
	return nil
}
