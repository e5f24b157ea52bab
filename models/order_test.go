package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTableName(t *testing.T) {
	order := Order{}
	assert.Equal(t, "orders", order.TableName(), "Table name should be 'orders'")
}

func TestOrderStructFields(t *testing.T) {
	message := "Please match the hair color"
	order := Order{
		OrderNumber:       "SKY-1",
		CustomerFirstName: "Ava",
		CustomerLastName:  "Chen",
		CustomerEmail:     "ava@example.com",
		Message:           &message,
		PaymentMethod:     "paypal",
		Status:            "pending",
		Amount:            1299,
	}

	assert.Equal(t, "SKY-1", order.OrderNumber)
	assert.Equal(t, "ava@example.com", order.CustomerEmail)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "Please match the hair color", *order.Message)
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, IsValidStatus(status), "Expected %s to be valid", status)
	}

	invalid := []string{"", "PENDING", "done", "refunded", "teleported"}
	for _, status := range invalid {
		assert.False(t, IsValidStatus(status), "Expected %s to be invalid", status)
	}
}

func TestOrderImageFieldsAreOptional(t *testing.T) {
	// Customers who already own a 3D model place orders without images
	order := Order{
		OrderNumber:       "SKY-2",
		CustomerFirstName: "Leo",
		CustomerLastName:  "Park",
		CustomerEmail:     "leo@example.com",
		PaymentMethod:     "venmo",
		Status:            "pending",
		Amount:            1299,
	}

	assert.Nil(t, order.ReferenceImageKey)
	assert.Nil(t, order.PreviewImageKey)
	assert.Nil(t, order.ReferenceImageURL)
	assert.Nil(t, order.PreviewImageURL)
}
