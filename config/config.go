package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	Auth0Domain        string
	Auth0Audience      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Image transform gateway (OpenAI-style chat completions endpoint)
	TransformAPIURL string
	TransformAPIKey string
	TransformModel  string

	// Transactional email (Resend-style API)
	ResendAPIKey      string
	AdminEmail        string
	EmailFrom         string
	SendCustomerEmail bool

	// Order settings. Pricing and payment methods changed between product
	// revisions, so they are configuration rather than constants.
	OrderAmount       float64
	OrderNumberPrefix string
	PaymentMethods    []string

	AllowedOrigins    []string
	SessionTTLMinutes int
}

var configInstance *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		TransformAPIURL:    getEnv("TRANSFORM_API_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
		TransformAPIKey:    getEnv("TRANSFORM_API_KEY", ""),
		TransformModel:     getEnv("TRANSFORM_MODEL", "google/gemini-2.5-flash-image-preview"),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "Sky Toys Orders <onboarding@resend.dev>"),
		SendCustomerEmail:  getEnvBool("SEND_CUSTOMER_EMAIL", true),
		OrderAmount:        getEnvFloat("ORDER_AMOUNT", 1299),
		OrderNumberPrefix:  getEnv("ORDER_NUMBER_PREFIX", "SKY"),
		PaymentMethods:     getEnvList("PAYMENT_METHODS", "paypal,venmo,payoneer,remitly,crypto"),
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		SessionTTLMinutes:  getEnvInt("SESSION_TTL_MINUTES", 120),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	configInstance = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.OrderAmount <= 0 {
		return fmt.Errorf("ORDER_AMOUNT must be positive")
	}
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("PAYMENT_METHODS must not be empty")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsValidPaymentMethod reports whether method is one of the configured payment methods
func (c *Config) IsValidPaymentMethod(method string) bool {
	for _, m := range c.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// GetConfig returns the loaded configuration instance
func GetConfig() *Config {
	return configInstance
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(c *Config) {
	configInstance = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Invalid boolean for %s=%q, using default %v", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid integer for %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid number for %s=%q, using default %v", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable as a slice
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
