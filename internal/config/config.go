package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	LogLevel    string
	AuthEnabled bool

	// AWS configuration
	AWSRegion    string
	AWSAccountID string

	// Descriptor storage configuration. When SpecBucket is empty a
	// per-account bucket name is derived at runtime from the caller identity.
	SpecBucket string

	// Gateway execution role
	GatewayRoleName string

	// Cognito identity infrastructure names. These resources are reused
	// across gateways, so they only change when running multiple isolated
	// stacks in one account.
	UserPoolName       string
	ResourceServerID   string
	ResourceServerName string
	ClientName         string
}

// New creates a new Config instance by loading environment variables
// from .env file (if present) and OS environment.
// OS environment variables take precedence over .env file values.
// Panics if configuration values are malformed.
func New() *Config {
	// Load .env file from the working directory (silently ignore if not found)
	envPath := filepath.Join(".", ".env")
	_ = godotenv.Load(envPath)

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8000"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "INFO"),
		AuthEnabled: getEnvOrDefault("AUTH_ENABLED", "false") == "true",

		AWSRegion:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSAccountID: os.Getenv("AWS_ACCOUNT_ID"),

		SpecBucket: os.Getenv("OPENAPI_SPEC_BUCKET"),

		GatewayRoleName: getEnvOrDefault("GATEWAY_ROLE_NAME", "mcp-gateway-execution-role"),

		UserPoolName:       getEnvOrDefault("COGNITO_USER_POOL_NAME", "mcp-gateway-pool"),
		ResourceServerID:   getEnvOrDefault("COGNITO_RESOURCE_SERVER_ID", "mcp-gateway"),
		ResourceServerName: getEnvOrDefault("COGNITO_RESOURCE_SERVER_NAME", "mcp-gateway"),
		ClientName:         getEnvOrDefault("COGNITO_CLIENT_NAME", "mcp-gateway-client"),
	}

	cfg.validate()

	return cfg
}

// validate checks that configuration values are well-formed.
// AWS_ACCOUNT_ID is optional (it can be resolved through STS at runtime),
// but when provided it must be a valid 12-digit account ID.
func (c *Config) validate() {
	if c.AWSAccountID != "" && (len(c.AWSAccountID) != 12 || !isNumeric(c.AWSAccountID)) {
		panic(fmt.Sprintf("AWS_ACCOUNT_ID must be exactly 12 digits (got '%s')", c.AWSAccountID))
	}

	if c.AWSRegion == "" {
		panic("AWS_REGION must not be empty")
	}
}

// isNumeric checks if a string contains only numeric characters
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
