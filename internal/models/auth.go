package models

// API key injection locations supported by OpenAPI targets
const (
	KeyLocationQuery  = "QUERY_PARAMETER"
	KeyLocationHeader = "HEADER"
)

// Auth types accepted on tool registration
const (
	AuthTypeAPIKey = "api_key"
	AuthTypeOAuth  = "oauth"
)

// AuthConfig holds the credential configuration for a tool's external API
type AuthConfig struct {
	APIKey          string `json:"api_key,omitempty"`
	APIKeyParamName string `json:"api_key_param_name,omitempty"`
	APIKeyLocation  string `json:"api_key_location,omitempty"`
}

// Auth describes how outbound calls to a tool's real API authenticate
type Auth struct {
	Type         string     `json:"type" binding:"required,oneof=oauth api_key"`
	ProviderName string     `json:"provider_name,omitempty"`
	Config       AuthConfig `json:"config"`
}

// CognitoAuthConfig is the inbound JWT configuration for a gateway
type CognitoAuthConfig struct {
	UserPoolID   string `json:"user_pool_id" binding:"required"`
	ClientID     string `json:"client_id" binding:"required"`
	DiscoveryURL string `json:"discovery_url" binding:"required"`
}

// AuthSetup is the identity infrastructure created by the one-time setup
// workflow. ClientSecret is returned to the caller once and must not be
// logged.
type AuthSetup struct {
	UserPoolID       string
	ClientID         string
	ClientSecret     string
	ResourceServerID string
	DiscoveryURL     string
}

// TokenRequest represents the request body for issuing an M2M access token
type TokenRequest struct {
	UserPoolID   string `json:"user_pool_id" binding:"required"`
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
	Scope        string `json:"scope,omitempty"`
}

// TokenResponse mirrors the OAuth token endpoint response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}
