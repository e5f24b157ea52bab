package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/services"
)

// UpdateOrderRequest represents the request body for an admin order update
type UpdateOrderRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// ListOrders handles GET /api/v1/admin/orders - returns all orders, newest
// first, with presigned image URLs resolved for review
func ListOrders(c *gin.Context) {
	orderService := services.NewOrderService(config.GetDB(), config.GetConfig(), services.GetS3Service())

	orders, err := orderService.ListOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	for i := range orders {
		if orders[i].ReferenceImageKey != nil {
			if url, urlErr := s3Service.GetPresignedURL(*orders[i].ReferenceImageKey); urlErr == nil && url != "" {
				orders[i].ReferenceImageURL = &url
			} else if urlErr != nil {
				log.Printf("Failed to presign reference image for order %s: %v", orders[i].OrderNumber, urlErr)
			}
		}
		if orders[i].PreviewImageKey != nil {
			if url, urlErr := s3Service.GetPresignedURL(*orders[i].PreviewImageKey); urlErr == nil && url != "" {
				orders[i].PreviewImageURL = &url
			} else if urlErr != nil {
				log.Printf("Failed to presign preview image for order %s: %v", orders[i].OrderNumber, urlErr)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrder handles PUT /api/v1/admin/orders/:id - overwrites exactly the
// status and notes fields of an order
func UpdateOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID must be a number",
			},
		})
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	orderService := services.NewOrderService(config.GetDB(), config.GetConfig(), services.GetS3Service())

	order, err := orderService.UpdateOrder(uint(id), req.Status, req.Notes)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": valErr.Message,
				},
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
