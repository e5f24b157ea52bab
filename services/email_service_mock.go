package services

import (
	"sync"

	"github.com/whatsupskylar/sky-toys-api/models"
)

// SentEmail records one SendOrderEmails call for testing assertions
type SentEmail struct {
	OrderNumber    string
	CustomerEmail  string
	ReferenceImage string
	PreviewImage   string
}

// MockEmailService is a mock implementation of EmailService for testing
type MockEmailService struct {
	mu sync.Mutex

	// Err, when set, is returned from every SendOrderEmails call
	Err error

	sent []SentEmail
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// SendOrderEmails records the call and returns the configured error
func (m *MockEmailService) SendOrderEmails(order *models.Order, referenceImage, previewImage string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentEmail{
		OrderNumber:    order.OrderNumber,
		CustomerEmail:  order.CustomerEmail,
		ReferenceImage: referenceImage,
		PreviewImage:   previewImage,
	})
	m.mu.Unlock()

	return m.Err
}

// Sent returns all recorded sends (for testing assertions)
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := make([]SentEmail, len(m.sent))
	copy(sent, m.sent)
	return sent
}

// Clear resets recorded sends
func (m *MockEmailService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.Err = nil
}
