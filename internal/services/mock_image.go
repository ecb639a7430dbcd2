package services

import (
	"context"
	"sync"
)

// MockImage is a scriptable ImageService for testing.
type MockImage struct {
	RenderFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

	RenderCalls []RenderRequest

	mu sync.Mutex
}

var _ ImageService = (*MockImage)(nil)

// NewMockImage creates a mock image service that returns a tiny fake
// PNG payload by default.
func NewMockImage() *MockImage {
	return &MockImage{}
}

func (m *MockImage) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RenderCalls = append(m.RenderCalls, req)
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, req)
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}
