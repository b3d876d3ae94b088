package model

import (
	"time"

	"github.com/secmon-lab/caseline/pkg/domain/types"
)

// Case represents a customer case tracked through the repair/order workflow
type Case struct {
	ID           int64
	Title        string
	Description  string
	CustomerName string
	Status       types.CaseStatus
	Priority     types.CasePriority
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFastTrack reports whether the case carries the four-business-day fast-track flag
func (c *Case) IsFastTrack() bool {
	return c.Priority.Normalize() == types.CasePriorityFourDaysFastTrack
}
