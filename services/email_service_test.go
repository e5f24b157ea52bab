package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/models"
)

func testOrder() *models.Order {
	message := "Extra sparkles please"
	return &models.Order{
		OrderNumber:       "SKY-5",
		CustomerFirstName: "Sky",
		CustomerLastName:  "Lar",
		CustomerEmail:     "sky@example.com",
		PaymentMethod:     "paypal",
		Message:           &message,
		Status:            "pending",
		Amount:            1299,
	}
}

func newEmailServiceForTest(url string, sendCustomer bool) *ResendEmailService {
	svc := NewEmailService(&config.Config{
		ResendAPIKey:      "test-key",
		AdminEmail:        "admin@example.com",
		EmailFrom:         "Sky Toys Orders <orders@example.com>",
		SendCustomerEmail: sendCustomer,
	})
	svc.SetAPIURL(url)
	return svc
}

func TestSendOrderEmails(t *testing.T) {
	var received []emailRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req emailRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = append(received, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "email-1"}`))
	}))
	defer server.Close()

	svc := newEmailServiceForTest(server.URL, true)
	err := svc.SendOrderEmails(testOrder(), "data:image/png;base64,cmVm", "data:image/png;base64,cHJldg==")

	assert.NoError(t, err)
	assert.Len(t, received, 2)

	// Admin email carries details and attachments with bare base64 content
	admin := received[0]
	assert.Equal(t, []string{"admin@example.com"}, admin.To)
	assert.Contains(t, admin.Subject, "SKY-5")
	assert.Contains(t, admin.HTML, "sky@example.com")
	assert.Contains(t, admin.HTML, "Extra sparkles please")
	assert.Len(t, admin.Attachments, 2)
	assert.Equal(t, "cmVm", admin.Attachments[0].Content)
	assert.Equal(t, "cHJldg==", admin.Attachments[1].Content)

	// Customer confirmation has the order number but no attachments
	customer := received[1]
	assert.Equal(t, []string{"sky@example.com"}, customer.To)
	assert.Contains(t, customer.HTML, "SKY-5")
	assert.Empty(t, customer.Attachments)
}

func TestSendOrderEmailsAdminOnly(t *testing.T) {
	var count int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		_, _ = w.Write([]byte(`{"id": "email-1"}`))
	}))
	defer server.Close()

	svc := newEmailServiceForTest(server.URL, false)
	err := svc.SendOrderEmails(testOrder(), "", "")

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSendOrderEmailsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newEmailServiceForTest(server.URL, true)
	err := svc.SendOrderEmails(testOrder(), "", "")

	assert.Error(t, err)
}

func TestSendOrderEmailsNoAdminConfigured(t *testing.T) {
	svc := NewEmailService(&config.Config{SendCustomerEmail: true})
	// No admin email configured: nothing sent, no error
	assert.NoError(t, svc.SendOrderEmails(testOrder(), "", ""))
}
