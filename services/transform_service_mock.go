package services

import (
	"sync"
)

// MockTransformService is a mock implementation of TransformService for testing
type MockTransformService struct {
	mu sync.Mutex

	// Result is returned on success when Err is nil
	Result string
	// Err, when set, is returned from every TransformImage call
	Err error

	calls []string
}

// NewMockTransformService creates a mock that returns a fixed preview image
func NewMockTransformService() *MockTransformService {
	return &MockTransformService{
		Result: "data:image/png;base64,bW9jay1wcmV2aWV3",
	}
}

// SetAsMockForTesting sets this mock as the global transform service instance for testing
func (m *MockTransformService) SetAsMockForTesting() {
	SetTransformService(m)
}

// TransformImage records the call and returns the configured result or error
func (m *MockTransformService) TransformImage(imageDataURL string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, imageDataURL)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Result, nil
}

// Calls returns the images passed to TransformImage (for testing assertions)
func (m *MockTransformService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Clear resets recorded calls
func (m *MockTransformService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
