package memory

import (
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	caseRepo      *caseRepository
	statusHistory *statusHistoryRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		caseRepo:      newCaseRepository(),
		statusHistory: newStatusHistoryRepository(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) StatusHistory() interfaces.StatusHistoryRepository {
	return m.statusHistory
}

func (m *Memory) Close() error {
	return nil
}
