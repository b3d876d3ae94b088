package types

import "fmt"

// CaseStatus represents the workflow status of a case
type CaseStatus string

const (
	CaseStatusCreated           CaseStatus = "created"
	CaseStatusInProgress        CaseStatus = "in_progress"
	CaseStatusOfferCreated      CaseStatus = "offer_created"
	CaseStatusWaitingCustomer   CaseStatus = "waiting_customer"
	CaseStatusOfferAccepted     CaseStatus = "offer_accepted"
	CaseStatusOfferRejected     CaseStatus = "offer_rejected"
	CaseStatusWaitingParts      CaseStatus = "waiting_parts"
	CaseStatusPreparingDelivery CaseStatus = "preparing_delivery"
	CaseStatusReadyForPickup    CaseStatus = "ready_for_pickup"
	CaseStatusCompleted         CaseStatus = "completed"
	CaseStatusCancelled         CaseStatus = "cancelled"
)

// AllCaseStatuses returns all valid case statuses in workflow order
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusCreated,
		CaseStatusInProgress,
		CaseStatusOfferCreated,
		CaseStatusWaitingCustomer,
		CaseStatusOfferAccepted,
		CaseStatusOfferRejected,
		CaseStatusWaitingParts,
		CaseStatusPreparingDelivery,
		CaseStatusReadyForPickup,
		CaseStatusCompleted,
		CaseStatusCancelled,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusCreated,
		CaseStatusInProgress,
		CaseStatusOfferCreated,
		CaseStatusWaitingCustomer,
		CaseStatusOfferAccepted,
		CaseStatusOfferRejected,
		CaseStatusWaitingParts,
		CaseStatusPreparingDelivery,
		CaseStatusReadyForPickup,
		CaseStatusCompleted,
		CaseStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further workflow transition is expected
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusCompleted || s == CaseStatusCancelled
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}
