package types

import "fmt"

// CasePriority represents the SLA priority flag of a case
type CasePriority string

const (
	CasePriorityNormal            CasePriority = "normal"
	CasePriorityFourDaysFastTrack CasePriority = "four_days_fast_track"
)

// AllCasePriorities returns all valid case priorities
func AllCasePriorities() []CasePriority {
	return []CasePriority{
		CasePriorityNormal,
		CasePriorityFourDaysFastTrack,
	}
}

// IsValid checks if the case priority is valid
func (p CasePriority) IsValid() bool {
	switch p {
	case CasePriorityNormal,
		CasePriorityFourDaysFastTrack:
		return true
	default:
		return false
	}
}

// Normalize returns the priority, treating empty as CasePriorityNormal.
func (p CasePriority) Normalize() CasePriority {
	if p == "" {
		return CasePriorityNormal
	}
	return p
}

// String returns the string representation of the case priority
func (p CasePriority) String() string {
	return string(p)
}

// ParseCasePriority parses a string into a CasePriority. Empty input yields CasePriorityNormal.
func ParseCasePriority(s string) (CasePriority, error) {
	priority := CasePriority(s).Normalize()
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid case priority: %s", s)
	}
	return priority, nil
}
