package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Step identifies where a customer is in the purchase funnel
type Step string

const (
	StepModelCheck   Step = "model_check"
	StepUpload       Step = "upload"
	StepTransforming Step = "transforming"
	StepPreview      Step = "preview"
	StepForm         Step = "form"
	StepSuccess      Step = "success"
)

// WorkflowError represents an invalid workflow operation
type WorkflowError struct {
	Code    string
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

var (
	// ErrTransformInFlight is returned when a transform is requested while one is outstanding
	ErrTransformInFlight = &WorkflowError{Code: "TRANSFORM_IN_FLIGHT", Message: "A preview is already being generated"}
	// ErrSubmitInFlight is returned when a submit is requested while one is outstanding
	ErrSubmitInFlight = &WorkflowError{Code: "SUBMIT_IN_FLIGHT", Message: "Your order is already being submitted"}
)

func invalidStep(from Step, action string) error {
	return &WorkflowError{
		Code:    "INVALID_STEP",
		Message: "Cannot " + action + " from step '" + string(from) + "'",
	}
}

// Session holds all transient state for one customer's trip through the
// purchase funnel. A session is the server-side analogue of the storefront's
// page state: it owns the uploaded image, the generated preview, and the
// in-flight guards that keep a double-click from firing a network call twice.
type Session struct {
	mu sync.Mutex

	ID            string
	Step          Step
	UploadedImage string // data URL of the customer's character image
	PreviewImage  string // data URL of the generated toy preview
	OrderNumber   string // set after a successful submit
	CreatedAt     time.Time
	UpdatedAt     time.Time

	transforming bool
	submitting   bool
}

// NewSession creates a session at the initial step
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Step:      StepModelCheck,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ChooseDesign records whether the customer needs a toy designed from an image.
// Customers who already own a 3D model skip straight to the order form.
func (s *Session) ChooseDesign(needsDesign bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step != StepModelCheck {
		return invalidStep(s.Step, "choose a design option")
	}
	if needsDesign {
		s.Step = StepUpload
	} else {
		s.Step = StepForm
	}
	s.touch()
	return nil
}

// BeginTransform stores the uploaded image and moves to the transforming step.
// It fails if a transform is already outstanding, so a repeated upload cannot
// fire the image gateway twice for one user action.
func (s *Session) BeginTransform(imageDataURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transforming {
		return ErrTransformInFlight
	}
	if s.Step != StepUpload {
		return invalidStep(s.Step, "upload an image")
	}
	s.UploadedImage = imageDataURL
	s.PreviewImage = ""
	s.Step = StepTransforming
	s.transforming = true
	s.touch()
	return nil
}

// CompleteTransform records the generated preview and moves to the preview step
func (s *Session) CompleteTransform(previewDataURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step != StepTransforming {
		return invalidStep(s.Step, "complete a transform")
	}
	s.PreviewImage = previewDataURL
	s.Step = StepPreview
	s.transforming = false
	s.touch()
	return nil
}

// FailTransform returns the session to the upload step after a failed
// transform call. Failures are never retried automatically; the customer has
// to pick a file again.
func (s *Session) FailTransform() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step == StepTransforming {
		s.Step = StepUpload
	}
	s.PreviewImage = ""
	s.transforming = false
	s.touch()
}

// ConfirmPreview moves from the preview to the order form
func (s *Session) ConfirmPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step != StepPreview {
		return invalidStep(s.Step, "confirm the preview")
	}
	s.Step = StepForm
	s.touch()
	return nil
}

// TryDifferentImage discards both images and returns to the upload step
func (s *Session) TryDifferentImage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step != StepPreview {
		return invalidStep(s.Step, "try a different image")
	}
	s.UploadedImage = ""
	s.PreviewImage = ""
	s.Step = StepUpload
	s.touch()
	return nil
}

// BeginSubmit marks the order submission as in flight. It fails if a submit
// is already outstanding.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.Step != StepForm {
		return invalidStep(s.Step, "submit an order")
	}
	s.submitting = true
	s.touch()
	return nil
}

// CompleteSubmit records the allocated order number and moves to success
func (s *Session) CompleteSubmit(orderNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.OrderNumber = orderNumber
	s.Step = StepSuccess
	s.submitting = false
	s.touch()
}

// FailSubmit clears the in-flight flag, leaving the session at the form step
// so the customer's input is not lost
func (s *Session) FailSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	s.touch()
}

// Reset returns every piece of session state to its initial value so a new
// order attempt starts clean
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Step = StepModelCheck
	s.UploadedImage = ""
	s.PreviewImage = ""
	s.OrderNumber = ""
	s.transforming = false
	s.submitting = false
	s.touch()
}

// Snapshot returns a consistent copy of the session's externally visible state
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionSnapshot{
		ID:           s.ID,
		Step:         s.Step,
		HasUpload:    s.UploadedImage != "",
		PreviewImage: s.PreviewImage,
		OrderNumber:  s.OrderNumber,
		Transforming: s.transforming,
		Submitting:   s.submitting,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Images returns the stored image data URLs
func (s *Session) Images() (uploaded, preview string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UploadedImage, s.PreviewImage
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// SessionSnapshot is the JSON-safe view of a session returned to clients
type SessionSnapshot struct {
	ID           string    `json:"id"`
	Step         Step      `json:"step"`
	HasUpload    bool      `json:"has_upload"`
	PreviewImage string    `json:"preview_image,omitempty"`
	OrderNumber  string    `json:"order_number,omitempty"`
	Transforming bool      `json:"transforming"`
	Submitting   bool      `json:"submitting"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
