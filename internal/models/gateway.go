package models

import "time"

// JWTAuthorizerConfig holds the custom JWT authorizer settings for a gateway
type JWTAuthorizerConfig struct {
	AllowedClients []string `json:"allowed_clients"`
	DiscoveryURL   string   `json:"discovery_url"`
}

// Gateway represents the domain model for a managed MCP gateway.
// It mirrors the remote resource; this process owns no persistent copy.
type Gateway struct {
	GatewayID      string
	GatewayARN     string
	GatewayURL     string
	Name           string
	Description    string
	Status         string // CREATING, UPDATING, READY, FAILED, DELETING, ...
	StatusReasons  []string
	AuthorizerType string // CUSTOM_JWT, AWS_IAM, NONE
	ProtocolType   string // always MCP
	RoleARN        string
	JWTConfig      *JWTAuthorizerConfig
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

// GatewaySummary is the trimmed gateway shape returned by list calls
type GatewaySummary struct {
	GatewayID      string
	Name           string
	Description    string
	Status         string
	AuthorizerType string
	ProtocolType   string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}
