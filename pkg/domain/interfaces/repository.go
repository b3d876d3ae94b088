package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Case() CaseRepository
	StatusHistory() StatusHistoryRepository

	// Close releases backend resources
	Close() error
}
