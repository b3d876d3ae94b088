package interfaces

import (
	"context"

	"github.com/secmon-lab/caseline/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access
type CaseRepository interface {
	// Create creates a new case with auto-generated ID
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id int64) (*model.Case, error)

	// List retrieves cases with optional filtering, ordered by ID ascending
	List(ctx context.Context, opts ...ListCaseOption) ([]*model.Case, error)

	// Update updates an existing case. CreatedAt is preserved and a zero UpdatedAt is stamped with the current time.
	Update(ctx context.Context, c *model.Case) (*model.Case, error)

	// Delete deletes a case by ID
	Delete(ctx context.Context, id int64) error
}
