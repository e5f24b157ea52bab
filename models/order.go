package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatuses are the statuses an admin can assign. The data model does not
// constrain transitions between them.
var OrderStatuses = []string{"pending", "paid", "in_progress", "shipped", "completed", "cancelled"}

// Order represents a custom toy order in the system
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	OrderNumber       string         `gorm:"uniqueIndex;not null" json:"order_number"` // human-facing, e.g. SKY-42
	CustomerFirstName string         `gorm:"not null" json:"customer_first_name"`
	CustomerLastName  string         `gorm:"not null" json:"customer_last_name"`
	CustomerEmail     string         `gorm:"uniqueIndex;not null" json:"customer_email"` // normalized, one order per email
	Message           *string        `json:"message"`                                    // optional customer note
	PaymentMethod     string         `gorm:"not null" json:"payment_method"`
	ReferenceImageKey *string        `json:"reference_image_key"`                    // S3 key for the uploaded character image
	PreviewImageKey   *string        `json:"preview_image_key"`                      // S3 key for the generated toy preview
	ReferenceImageURL *string        `gorm:"-" json:"reference_image_url,omitempty"` // computed field, presigned URL
	PreviewImageURL   *string        `gorm:"-" json:"preview_image_url,omitempty"`   // computed field, presigned URL
	Status            string         `gorm:"not null;default:'pending'" json:"status"`
	Notes             *string        `json:"notes"` // admin-only free text
	Amount            float64        `gorm:"not null" json:"amount"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsValidStatus reports whether status is one of the known order statuses
func IsValidStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
