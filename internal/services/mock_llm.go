package services

import (
	"context"
	"sync"
)

// MockLLM is a scriptable LLMService for testing. Responses are served
// in order; when the queue runs out, the last response repeats.
type MockLLM struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	CompleteFunc  func(ctx context.Context, prompt string) (string, error)

	// Responses served in order when CompleteFunc is nil.
	Responses []string

	// Call tracking
	InitModelCalls []string
	CompleteCalls  []string

	mu   sync.Mutex
	next int
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a mock that serves the given responses in order.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{Responses: responses}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls = append(m.CompleteCalls, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	if len(m.Responses) == 0 {
		return "", ErrServiceUnavailable
	}
	resp := m.Responses[min(m.next, len(m.Responses)-1)]
	m.next++
	return resp, nil
}

// CallCount returns how many Complete calls were made.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CompleteCalls)
}
