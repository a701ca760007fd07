package storage

// Repository defines the storage interface for reconciliation run history.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	// SaveRun persists a completed run, including its full result.
	SaveRun(run *Run) error

	// GetRun retrieves a run by ID with its full result loaded.
	GetRun(id string) (*Run, error)

	// ListRuns returns the most recent runs, newest first, without results.
	// limit <= 0 means the default of 50.
	ListRuns(limit int) ([]*Run, error)

	Close() error
}
