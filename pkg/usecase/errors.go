package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrCaseNotFound = errors.New("case not found")

	// Validation errors
	ErrTitleRequired   = errors.New("case title is required")
	ErrInvalidStatus   = errors.New("invalid case status")
	ErrInvalidPriority = errors.New("invalid case priority")

	// Status errors
	ErrStatusUnchanged = errors.New("case already has the requested status")
)

// Context keys for error values
const (
	CaseIDKey = "case_id"
	StatusKey = "status"
)
