package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
)

type CaseUseCase struct {
	repo  interfaces.Repository
	clock Clock
}

func NewCaseUseCase(repo interfaces.Repository, clock Clock) *CaseUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &CaseUseCase{
		repo:  repo,
		clock: clock,
	}
}

// CreateCase creates a case in the created status and records its first history entry
func (uc *CaseUseCase) CreateCase(ctx context.Context, title, description, customerName string, priority types.CasePriority) (*model.Case, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, goerr.Wrap(ErrTitleRequired, "failed to create case")
	}

	priority = priority.Normalize()
	if !priority.IsValid() {
		return nil, goerr.Wrap(ErrInvalidPriority, "failed to create case", goerr.V("priority", priority))
	}

	now := uc.clock()
	created, err := uc.repo.Case().Create(ctx, &model.Case{
		Title:        title,
		Description:  description,
		CustomerName: customerName,
		Status:       types.CaseStatusCreated,
		Priority:     priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}

	if _, err := uc.repo.StatusHistory().Add(ctx, &model.StatusHistoryEntry{
		CaseID:    created.ID,
		Status:    created.Status,
		CreatedAt: created.CreatedAt,
	}); err != nil {
		// Rollback: delete case
		if delErr := uc.repo.Case().Delete(ctx, created.ID); delErr != nil {
			return nil, goerr.Wrap(err, "failed to record initial status, and also failed to roll back case creation",
				goerr.V("rollback_error", delErr),
				goerr.V(CaseIDKey, created.ID))
		}
		return nil, goerr.Wrap(err, "failed to record initial status", goerr.V(CaseIDKey, created.ID))
	}

	return created, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id int64) (*model.Case, error) {
	return getCase(ctx, uc.repo, id)
}

func (uc *CaseUseCase) ListCases(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

// ChangeStatus moves a case into status. The history entry is written before
// the case itself, so a failed update leaves at most an unused entry behind.
func (uc *CaseUseCase) ChangeStatus(ctx context.Context, id int64, status types.CaseStatus) (*model.Case, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "failed to change case status",
			goerr.V(CaseIDKey, id),
			goerr.V(StatusKey, status))
	}

	c, err := getCase(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if c.Status == status {
		return nil, goerr.Wrap(ErrStatusUnchanged, "failed to change case status",
			goerr.V(CaseIDKey, id),
			goerr.V(StatusKey, status))
	}

	now := uc.clock()
	if _, err := uc.repo.StatusHistory().Add(ctx, &model.StatusHistoryEntry{
		CaseID:    id,
		Status:    status,
		CreatedAt: now,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to record status history",
			goerr.V(CaseIDKey, id),
			goerr.V(StatusKey, status))
	}

	from := c.Status
	c.Status = status
	c.UpdatedAt = now
	updated, err := uc.repo.Case().Update(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case status",
			goerr.V(CaseIDKey, id),
			goerr.V(StatusKey, status))
	}

	if from.IsTerminal() {
		logging.From(ctx).Info("reopened case", "case_id", id, "from", from, "to", status)
	}

	return updated, nil
}

// GetStatusHistory returns the status history of a case, oldest first
func (uc *CaseUseCase) GetStatusHistory(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	if _, err := getCase(ctx, uc.repo, id); err != nil {
		return nil, err
	}

	history, err := uc.repo.StatusHistory().ListByCase(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list status history", goerr.V(CaseIDKey, id))
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})

	return history, nil
}

// DeleteCase deletes a case together with its status history
func (uc *CaseUseCase) DeleteCase(ctx context.Context, id int64) error {
	if _, err := getCase(ctx, uc.repo, id); err != nil {
		return err
	}

	if err := uc.repo.Case().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V(CaseIDKey, id))
	}

	if err := uc.repo.StatusHistory().DeleteByCase(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete status history", goerr.V(CaseIDKey, id))
	}

	return nil
}

func getCase(ctx context.Context, repo interfaces.Repository, id int64) (*model.Case, error) {
	c, err := repo.Case().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}
