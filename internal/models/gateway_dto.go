package models

import "time"

// CreateGatewayRequest represents the request body for creating a
// JWT-authenticated gateway
type CreateGatewayRequest struct {
	GatewayName string            `json:"gateway_name" binding:"required"`
	Description string            `json:"description"`
	AuthConfig  CognitoAuthConfig `json:"auth_config" binding:"required"`
}

// CreateGatewayNoAuthRequest represents the request body for creating an
// unauthenticated gateway
type CreateGatewayNoAuthRequest struct {
	GatewayName string `json:"gateway_name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGatewayRequest represents the request body for updating a gateway
type UpdateGatewayRequest struct {
	Name                    string               `json:"name" binding:"required"`
	ProtocolType            string               `json:"protocol_type"`
	AuthorizerType          string               `json:"authorizer_type" binding:"required"`
	RoleARN                 string               `json:"role_arn" binding:"required"`
	Description             *string              `json:"description,omitempty"`
	AuthorizerConfiguration *JWTAuthorizerConfig `json:"authorizer_configuration,omitempty"`
}

// GatewayResponse represents the full gateway representation returned by
// mutating endpoints, plus the synchronous status discriminator and message
type GatewayResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	GatewayID               string               `json:"gateway_id,omitempty"`
	GatewayURL              string               `json:"gateway_url,omitempty"`
	GatewayARN              string               `json:"gateway_arn,omitempty"`
	Name                    string               `json:"name,omitempty"`
	Description             string               `json:"description,omitempty"`
	GatewayStatus           string               `json:"gateway_status,omitempty"`
	StatusReasons           []string             `json:"status_reasons,omitempty"`
	AuthorizerType          string               `json:"authorizer_type,omitempty"`
	ProtocolType            string               `json:"protocol_type,omitempty"`
	RoleARN                 string               `json:"role_arn,omitempty"`
	AuthorizerConfiguration *JWTAuthorizerConfig `json:"authorizer_configuration,omitempty"`
	CreatedAt               *time.Time           `json:"created_at,omitempty"`
	UpdatedAt               *time.Time           `json:"updated_at,omitempty"`
}

// ToResponse converts a domain Gateway to a GatewayResponse DTO
func (g *Gateway) ToResponse(message string) GatewayResponse {
	return GatewayResponse{
		Status:                  "success",
		Message:                 message,
		GatewayID:               g.GatewayID,
		GatewayURL:              g.GatewayURL,
		GatewayARN:              g.GatewayARN,
		Name:                    g.Name,
		Description:             g.Description,
		GatewayStatus:           g.Status,
		StatusReasons:           g.StatusReasons,
		AuthorizerType:          g.AuthorizerType,
		ProtocolType:            g.ProtocolType,
		RoleARN:                 g.RoleARN,
		AuthorizerConfiguration: g.JWTConfig,
		CreatedAt:               g.CreatedAt,
		UpdatedAt:               g.UpdatedAt,
	}
}

// GatewaySummaryResponse is a single entry in a gateway list response
type GatewaySummaryResponse struct {
	GatewayID      string     `json:"gateway_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	AuthorizerType string     `json:"authorizer_type,omitempty"`
	ProtocolType   string     `json:"protocol_type,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ToResponse converts a domain GatewaySummary to its list entry DTO
func (g *GatewaySummary) ToResponse() GatewaySummaryResponse {
	return GatewaySummaryResponse{
		GatewayID:      g.GatewayID,
		Name:           g.Name,
		Description:    g.Description,
		Status:         g.Status,
		AuthorizerType: g.AuthorizerType,
		ProtocolType:   g.ProtocolType,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// GatewayListResponse represents the response for listing gateways
type GatewayListResponse struct {
	Gateways  []GatewaySummaryResponse `json:"gateways"`
	Total     int                      `json:"total"`
	NextToken string                   `json:"next_token,omitempty"`
}

// DeleteGatewayResponse represents the response after initiating a gateway
// deletion. Deletion is asynchronous; the resource transitions to DELETING.
type DeleteGatewayResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	GatewayID string `json:"gateway_id"`
}
