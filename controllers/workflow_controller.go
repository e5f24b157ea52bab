package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/services"
	"github.com/whatsupskylar/sky-toys-api/utils"
	"github.com/whatsupskylar/sky-toys-api/workflow"
)

var workflowStore *workflow.Store

// InitWorkflowStore initializes the session store for the purchase funnel
func InitWorkflowStore(ttl time.Duration) *workflow.Store {
	workflowStore = workflow.NewStore(ttl)
	return workflowStore
}

// SetWorkflowStore sets the session store (primarily for testing)
func SetWorkflowStore(store *workflow.Store) {
	workflowStore = store
}

// ModelCheckRequest represents the request body for the model-check step
type ModelCheckRequest struct {
	NeedsDesign *bool `json:"needs_design" binding:"required"`
}

// SubmitOrderRequest represents the request body for the final order submission
type SubmitOrderRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Message       string `json:"message"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreateWorkflow handles POST /api/v1/workflow - starts a new purchase funnel session
func CreateWorkflow(c *gin.Context) {
	session := workflowStore.Create()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// GetWorkflow handles GET /api/v1/workflow/:id - returns the session snapshot
func GetWorkflow(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// ModelCheck handles POST /api/v1/workflow/:id/model-check - records whether
// the customer needs a toy designed from an image or already owns a 3D model
func ModelCheck(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	var req ModelCheckRequest
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

	if err := session.ChooseDesign(*req.NeedsDesign); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// UploadImage handles POST /api/v1/workflow/:id/upload - validates the
// character image and generates the toy preview. Validation failures never
// reach the transform gateway; gateway failures return the session to the
// upload step for a user-initiated retry.
func UploadImage(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid image file",
			},
		})
		return
	}

	imageDataURL, err := utils.ReadFileAsDataURL(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to read uploaded image",
			},
		})
		return
	}

	if err := session.BeginTransform(imageDataURL); err != nil {
		respondWorkflowError(c, err)
		return
	}

	preview, err := services.GetTransformService().TransformImage(imageDataURL)
	if err != nil {
		session.FailTransform()
		respondTransformError(c, err)
		return
	}

	if err := session.CompleteTransform(preview); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// ConfirmPreview handles POST /api/v1/workflow/:id/confirm - the customer
// accepts the generated preview and moves on to the order form
func ConfirmPreview(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	if err := session.ConfirmPreview(); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// RetryUpload handles POST /api/v1/workflow/:id/retry - the customer rejects
// the preview and goes back to pick a different image
func RetryUpload(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	if err := session.TryDifferentImage(); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// SubmitOrder handles POST /api/v1/workflow/:id/submit - turns the completed
// form into a durable order through the persistence gateway
func SubmitOrder(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	var req SubmitOrderRequest
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

	if err := session.BeginSubmit(); err != nil {
		respondWorkflowError(c, err)
		return
	}

	referenceImage, previewImage := session.Images()

	orderService := services.NewOrderService(config.GetDB(), config.GetConfig(), services.GetS3Service())
	order, err := orderService.SubmitOrder(services.SubmitOrderInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Message:        req.Message,
		PaymentMethod:  req.PaymentMethod,
		ReferenceImage: referenceImage,
		PreviewImage:   previewImage,
	})
	if err != nil {
		session.FailSubmit()
		respondSubmitError(c, err)
		return
	}

	session.CompleteSubmit(order.OrderNumber)

	// The order is durable; a failed notification must not undo the submit
	if emailService := services.GetEmailService(); emailService != nil {
		if emailErr := emailService.SendOrderEmails(order, referenceImage, previewImage); emailErr != nil {
			log.Printf("Failed to send order notification for %s: %v", order.OrderNumber, emailErr)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_number": order.OrderNumber,
			"session":      session.Snapshot(),
		},
	})
}

// ResetWorkflow handles POST /api/v1/workflow/:id/reset - "order another":
// every piece of session state returns to its initial empty value
func ResetWorkflow(c *gin.Context) {
	session := sessionFromParam(c)
	if session == nil {
		return
	}

	session.Reset()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// sessionFromParam resolves the session from the :id route parameter,
// writing a 404 response when it does not exist
func sessionFromParam(c *gin.Context) *workflow.Session {
	session := workflowStore.Get(c.Param("id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_NOT_FOUND",
				"message": "Workflow session not found or expired",
			},
		})
		return nil
	}
	return session
}

// respondWorkflowError maps state machine violations onto conflict responses
func respondWorkflowError(c *gin.Context, err error) {
	var wfErr *workflow.WorkflowError
	if errors.As(err, &wfErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    wfErr.Code,
				"message": wfErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Unexpected workflow error",
		},
	})
}

// respondTransformError maps transform gateway failures to HTTP responses.
// Quota and rate-limit failures keep their upstream status codes so the
// storefront can show the matching message.
func respondTransformError(c *gin.Context, err error) {
	var transformErr *services.TransformError
	if errors.As(err, &transformErr) {
		status := http.StatusBadGateway
		switch transformErr.Code {
		case "TRANSFORM_QUOTA_EXCEEDED":
			status = http.StatusPaymentRequired
		case "TRANSFORM_RATE_LIMITED":
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    transformErr.Code,
				"message": transformErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "TRANSFORM_FAILED",
			"message": "Failed to generate preview. Please try again.",
		},
	})
}

// respondSubmitError maps persistence gateway failures to HTTP responses
func respondSubmitError(c *gin.Context, err error) {
	var dupErr *services.DuplicateOrderError
	if errors.As(err, &dupErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_ORDER",
				"message": "You already have an order (" + dupErr.OrderNumber + "). Contact us if you need help!",
			},
			"data": gin.H{
				"existing_order_number": dupErr.OrderNumber,
			},
		})
		return
	}

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

	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SUBMIT_FAILED",
			"message": "Something went wrong placing your order. Please try again.",
		},
	})
}
