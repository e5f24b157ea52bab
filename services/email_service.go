package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/models"
)

// EmailService sends order notification emails. Order creation never depends
// on it: the order row is durable before any email is attempted, and send
// failures are logged rather than propagated.
type EmailService interface {
	// SendOrderEmails sends the admin notification and, when enabled, the
	// customer confirmation. Image arguments are base64 data URLs attached
	// to the admin email.
	SendOrderEmails(order *models.Order, referenceImage, previewImage string) error
}

// ResendEmailService implements EmailService against the Resend HTTP API
type ResendEmailService struct {
	apiKey            string
	apiURL            string
	adminEmail        string
	from              string
	sendCustomerEmail bool
	httpClient        *http.Client
}

var emailServiceInstance EmailService

// InitEmailService initializes the email service from configuration
func InitEmailService(cfg *config.Config) EmailService {
	emailServiceInstance = NewEmailService(cfg)
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(service EmailService) {
	emailServiceInstance = service
}

// NewEmailService creates an email service instance
func NewEmailService(cfg *config.Config) *ResendEmailService {
	return &ResendEmailService{
		apiKey:            cfg.ResendAPIKey,
		apiURL:            "https://api.resend.com/emails",
		adminEmail:        cfg.AdminEmail,
		from:              cfg.EmailFrom,
		sendCustomerEmail: cfg.SendCustomerEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAPIURL overrides the Resend endpoint (primarily for testing)
func (s *ResendEmailService) SetAPIURL(url string) {
	s.apiURL = url
}

type emailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type emailRequest struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// SendOrderEmails sends the admin notification first (it carries the image
// attachments), then the customer confirmation when enabled. The first
// failure is returned but the customer email is still only attempted after a
// successful admin send, matching the original notification flow.
func (s *ResendEmailService) SendOrderEmails(order *models.Order, referenceImage, previewImage string) error {
	if s.adminEmail == "" {
		log.Printf("ADMIN_EMAIL not configured, skipping order notification for %s", order.OrderNumber)
		return nil
	}

	attachments := make([]emailAttachment, 0, 2)
	if referenceImage != "" {
		attachments = append(attachments, emailAttachment{
			Filename: "reference-image.png",
			Content:  dataURLPrefix.ReplaceAllString(referenceImage, ""),
		})
	}
	if previewImage != "" {
		attachments = append(attachments, emailAttachment{
			Filename: "toy-preview.png",
			Content:  dataURLPrefix.ReplaceAllString(previewImage, ""),
		})
	}

	customerName := order.CustomerFirstName + " " + order.CustomerLastName

	adminEmail := emailRequest{
		From:        s.from,
		To:          []string{s.adminEmail},
		Subject:     fmt.Sprintf("New Order %s from %s", order.OrderNumber, customerName),
		HTML:        adminEmailHTML(order, customerName),
		Attachments: attachments,
	}
	if err := s.send(adminEmail); err != nil {
		return fmt.Errorf("failed to send admin notification: %w", err)
	}

	if s.sendCustomerEmail {
		customerEmail := emailRequest{
			From:    s.from,
			To:      []string{order.CustomerEmail},
			Subject: fmt.Sprintf("Your Sky Toys order %s is confirmed!", order.OrderNumber),
			HTML:    customerEmailHTML(order),
		}
		if err := s.send(customerEmail); err != nil {
			return fmt.Errorf("failed to send customer confirmation: %w", err)
		}
	}

	return nil
}

func (s *ResendEmailService) send(email emailRequest) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

func adminEmailHTML(order *models.Order, customerName string) string {
	message := "No message provided"
	if order.Message != nil && *order.Message != "" {
		message = *order.Message
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>New Order Received!</h1>
  <p><strong>Order Number:</strong> %s</p>
  <p><strong>Customer Name:</strong> %s</p>
  <p><strong>Customer Email:</strong> %s</p>
  <p><strong>Payment Method:</strong> %s</p>
  <p><strong>Amount:</strong> $%.2f USD</p>
  <p><strong>Message:</strong> %s</p>
  <p>Reference images are attached to this email.</p>
</div>`, order.OrderNumber, customerName, order.CustomerEmail, order.PaymentMethod, order.Amount, message)
}

func customerEmailHTML(order *models.Order) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Thank you for your order!</h1>
  <p>Hi %s! Your order has been received and your custom 3D toy is on its way to being made.</p>
  <p><strong>Order Number:</strong> %s</p>
  <p><strong>Amount:</strong> $%.2f USD</p>
  <p><strong>Payment Method:</strong> %s</p>
  <p>Keep your order number handy to finalize payment and shipping details.</p>
</div>`, order.CustomerFirstName, order.OrderNumber, order.Amount, order.PaymentMethod)
}
