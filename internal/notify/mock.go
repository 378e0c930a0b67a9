package notify

import (
	"context"
	"sync"

	"github.com/Veraticus/visawatch/internal/model"
)

// MockSender is a Sender for tests that records every message it is given.
type MockSender struct {
	SendFunc  func(ctx context.Context, msg model.Message) error
	Sent      []model.Message
	CallCount int
	mu        sync.Mutex
}

// NewMockSender creates a mock sender that accepts everything.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send implements Sender.
func (m *MockSender) Send(ctx context.Context, msg model.Message) error {
	m.mu.Lock()
	m.CallCount++
	fn := m.SendFunc
	m.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(ctx, msg)
	}

	if err == nil {
		m.mu.Lock()
		m.Sent = append(m.Sent, msg)
		m.mu.Unlock()
	}
	return err
}

// Calls returns how many times Send was invoked.
func (m *MockSender) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
