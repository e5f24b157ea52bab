package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/models"
	"github.com/whatsupskylar/sky-toys-api/utils"
)

// DuplicateOrderError is returned when the customer email already has an
// order. It carries the existing order number so the storefront can show it.
type DuplicateOrderError struct {
	OrderNumber string
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("an order already exists for this email (%s)", e.OrderNumber)
}

// SubmitError wraps a store or storage failure during order submission
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return "failed to submit order: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when submit input fails validation before any
// store call is made
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmitOrderInput carries the collected form data into the gateway
type SubmitOrderInput struct {
	FirstName      string
	LastName       string
	Email          string
	Message        string
	PaymentMethod  string
	ReferenceImage string // base64 data URL, may be empty
	PreviewImage   string // base64 data URL, may be empty
}

// OrderService turns validated form data into durable Order records. The
// database handle and storage backend are injected so the gateway can be
// tested without globals.
type OrderService struct {
	db  *gorm.DB
	cfg *config.Config
	s3  S3Interface
}

// NewOrderService creates an order service instance
func NewOrderService(db *gorm.DB, cfg *config.Config, s3 S3Interface) *OrderService {
	return &OrderService{db: db, cfg: cfg, s3: s3}
}

// NormalizeEmail trims and lowercases an email address, the form every
// stored customer email takes
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubmitOrder persists a new order: it rejects duplicate customer emails,
// allocates the next sequential order number, uploads the reference and
// preview images, and inserts the record with status pending.
//
// The number allocation is read-then-write with no transaction, mirroring the
// original storefront. The unique index on order_number means a lost race
// surfaces as a SubmitError instead of a silent duplicate.
func (s *OrderService) SubmitOrder(input SubmitOrderInput) (*models.Order, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := NormalizeEmail(input.Email)

	if firstName == "" || lastName == "" || email == "" {
		return nil, &ValidationError{Message: "First name, last name and email are required"}
	}
	if !s.cfg.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, &ValidationError{Message: fmt.Sprintf("Unknown payment method %q", input.PaymentMethod)}
	}

	// One order per customer email
	var existing models.Order
	err := s.db.Where("customer_email = ?", email).First(&existing).Error
	if err == nil {
		return nil, &DuplicateOrderError{OrderNumber: existing.OrderNumber}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &SubmitError{Err: err}
	}

	orderNumber, err := s.NextOrderNumber()
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	referenceKey, err := s.uploadImage(input.ReferenceImage)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}
	previewKey, err := s.uploadImage(input.PreviewImage)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	order := models.Order{
		OrderNumber:       orderNumber,
		CustomerFirstName: firstName,
		CustomerLastName:  lastName,
		CustomerEmail:     email,
		PaymentMethod:     input.PaymentMethod,
		ReferenceImageKey: referenceKey,
		PreviewImageKey:   previewKey,
		Status:            "pending",
		Amount:            s.cfg.OrderAmount,
	}
	if message := strings.TrimSpace(input.Message); message != "" {
		order.Message = &message
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, &SubmitError{Err: err}
	}

	log.Printf("Order %s created for %s", order.OrderNumber, order.CustomerEmail)
	return &order, nil
}

// NextOrderNumber computes the next order number from the most recently
// created order matching the configured prefix. The first order is number 1.
func (s *OrderService) NextOrderNumber() (string, error) {
	prefix := s.cfg.OrderNumberPrefix

	var last models.Order
	err := s.db.
		Where("order_number LIKE ?", prefix+"-%").
		Order("created_at DESC").
		First(&last).Error

	next := 1
	if err == nil {
		pattern := regexp.MustCompile(regexp.QuoteMeta(prefix) + `-(\d+)`)
		if match := pattern.FindStringSubmatch(last.OrderNumber); match != nil {
			if n, parseErr := strconv.Atoi(match[1]); parseErr == nil {
				next = n + 1
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s-%d", prefix, next), nil
}

// ListOrders returns all orders, newest first. An empty store yields an
// empty slice, not an error.
func (s *OrderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by ID
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder overwrites exactly the status and notes fields of an order
func (s *OrderService) UpdateOrder(id uint, status, notes string) (*models.Order, error) {
	if !models.IsValidStatus(status) {
		return nil, &ValidationError{Message: fmt.Sprintf("Unknown status %q", status)}
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status": status,
		"notes":  notes,
	}
	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	order.Status = status
	order.Notes = &notes
	return &order, nil
}

// uploadImage decodes a data URL and stores it, returning the storage key.
// Empty input yields a nil key.
func (s *OrderService) uploadImage(dataURL string) (*string, error) {
	if dataURL == "" {
		return nil, nil
	}

	data, contentType, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	key, err := s.s3.UploadBytes(data, contentType)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
