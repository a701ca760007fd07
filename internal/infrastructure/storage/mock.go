package storage

import (
	"sort"
	"sync"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu   sync.Mutex
	runs map[string]*Run

	// SaveErr, when set, is returned by SaveRun to exercise failure paths.
	SaveErr error
}

var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{runs: make(map[string]*Run)}
}

// SaveRun stores the run in memory.
func (m *MockRepository) SaveRun(run *Run) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *run
	m.runs[run.ID] = &clone
	return nil
}

// GetRun returns the stored run, or nil when absent.
func (m *MockRepository) GetRun(id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	clone := *run
	return &clone, nil
}

// ListRuns returns stored runs newest first, without results.
func (m *MockRepository) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		clone := *run
		clone.Result = nil
		runs = append(runs, &clone)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CompletedAt.After(runs[j].CompletedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op.
func (m *MockRepository) Close() error {
	return nil
}
