package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/whatsupskylar/sky-toys-api/config"
)

// toyPrompt is the instruction sent alongside the customer's image. The
// wording is tuned for chibi collectible renders and kept server-side so the
// storefront cannot alter it.
const toyPrompt = `Transform this anime character into a premium 3D collectible chibi figure. The figure should have:
- Cute oversized head with large expressive anime eyes
- Small chibi body proportions
- Glossy plastic vinyl finish like Nendoroid/Good Smile Company figures
- Professional product photo quality
- Pure white studio background
- Soft ambient lighting
- High quality collectible figure appearance
Keep the character's distinctive features, colors, and outfit while making it look like a real physical toy figure.`

// TransformError represents a failure from the image transform gateway
type TransformError struct {
	Code    string
	Message string
}

func (e *TransformError) Error() string {
	return e.Message
}

var (
	// ErrQuotaExceeded maps HTTP 402 from the gateway (usage limit reached)
	ErrQuotaExceeded = &TransformError{Code: "TRANSFORM_QUOTA_EXCEEDED", Message: "AI usage limit reached. Please try again later."}
	// ErrRateLimited maps HTTP 429 from the gateway
	ErrRateLimited = &TransformError{Code: "TRANSFORM_RATE_LIMITED", Message: "Too many requests. Please wait a moment and try again."}
)

// TransformService generates a 3D toy preview from a customer image
type TransformService interface {
	// TransformImage takes a base64 data URL and returns the generated
	// preview as a base64 data URL
	TransformImage(imageDataURL string) (string, error)
}

// HTTPTransformService implements TransformService against an OpenAI-style
// chat completions endpoint with image modalities
type HTTPTransformService struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

var transformServiceInstance TransformService

// InitTransformService initializes the transform service from configuration
func InitTransformService(cfg *config.Config) TransformService {
	transformServiceInstance = NewTransformService(cfg)
	return transformServiceInstance
}

// GetTransformService returns the initialized transform service instance
func GetTransformService() TransformService {
	return transformServiceInstance
}

// SetTransformService sets the transform service instance (primarily for testing)
func SetTransformService(service TransformService) {
	transformServiceInstance = service
}

// NewTransformService creates a transform service instance
func NewTransformService(cfg *config.Config) *HTTPTransformService {
	return &HTTPTransformService{
		apiURL: cfg.TransformAPIURL,
		apiKey: cfg.TransformAPIKey,
		model:  cfg.TransformModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // image generation is slow
		},
	}
}

type transformRequest struct {
	Model      string             `json:"model"`
	Messages   []transformMessage `json:"messages"`
	Modalities []string           `json:"modalities"`
}

type transformMessage struct {
	Role    string             `json:"role"`
	Content []transformContent `json:"content"`
}

type transformContent struct {
	Type     string             `json:"type"`
	Text     string             `json:"text,omitempty"`
	ImageURL *transformImageURL `json:"image_url,omitempty"`
}

type transformImageURL struct {
	URL string `json:"url"`
}

type transformResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL transformImageURL `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// TransformImage sends the customer image to the gateway and returns the
// generated preview. HTTP 402 and 429 are surfaced as their own errors so the
// storefront can show distinct messages; everything else collapses to a
// generic transform failure.
func (s *HTTPTransformService) TransformImage(imageDataURL string) (string, error) {
	payload := transformRequest{
		Model: s.model,
		Messages: []transformMessage{
			{
				Role: "user",
				Content: []transformContent{
					{Type: "text", Text: toyPrompt},
					{Type: "image_url", ImageURL: &transformImageURL{URL: imageDataURL}},
				},
			},
		},
		Modalities: []string{"image", "text"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode transform request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create transform request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &TransformError{Code: "TRANSFORM_FAILED", Message: "Failed to reach the image service. Please try again."}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode == http.StatusPaymentRequired {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", &TransformError{
			Code:    "TRANSFORM_FAILED",
			Message: fmt.Sprintf("Image service returned status %d: %s", resp.StatusCode, string(detail)),
		}
	}

	var result transformResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &TransformError{Code: "TRANSFORM_FAILED", Message: "Invalid response from the image service."}
	}

	if len(result.Choices) == 0 || len(result.Choices[0].Message.Images) == 0 {
		return "", &TransformError{Code: "TRANSFORM_FAILED", Message: "No image was generated. Please try again."}
	}

	generated := result.Choices[0].Message.Images[0].ImageURL.URL
	if generated == "" {
		return "", &TransformError{Code: "TRANSFORM_FAILED", Message: "No image was generated. Please try again."}
	}

	return generated, nil
}
