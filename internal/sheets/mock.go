package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/visawatch/internal/model"
)

// MockLoader is a TableLoader for tests that returns a fixed table.
type MockLoader struct {
	LoadFunc  func(ctx context.Context) (*model.Table, error)
	Table     *model.Table
	Err       error
	LoadCount int
	mu        sync.Mutex
}

// NewMockLoader creates a mock loader returning t.
func NewMockLoader(t *model.Table) *MockLoader {
	return &MockLoader{Table: t}
}

// Load implements service.TableLoader.
func (m *MockLoader) Load(ctx context.Context) (*model.Table, error) {
	m.mu.Lock()
	m.LoadCount++
	fn, t, err := m.LoadFunc, m.Table, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return t, err
}

// Calls returns how many times Load was invoked.
func (m *MockLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCount
}
