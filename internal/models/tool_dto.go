package models

import "time"

// APIInfo describes a single HTTP operation for descriptor synthesis.
// Query params, headers, and body are loosely-typed JSON Schema fragments.
type APIInfo struct {
	Method      string                 `json:"method" binding:"required"`
	URL         string                 `json:"url" binding:"required"`
	QueryParams map[string]interface{} `json:"query_params,omitempty"`
	Headers     map[string]interface{} `json:"headers,omitempty"`
	BodySchema  map[string]interface{} `json:"body_schema,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// CreateToolFromURLRequest registers a tool from an OpenAPI spec URL
type CreateToolFromURLRequest struct {
	GatewayID      string `json:"gateway_id" binding:"required"`
	ToolName       string `json:"tool_name" binding:"required"`
	OpenAPISpecURL string `json:"openapi_spec_url" binding:"required"`
	Auth           *Auth  `json:"auth,omitempty"`
	Description    string `json:"description,omitempty"`
}

// CreateToolFromAPIInfoRequest registers a tool from manual API information
type CreateToolFromAPIInfoRequest struct {
	GatewayID   string  `json:"gateway_id" binding:"required"`
	ToolName    string  `json:"tool_name" binding:"required"`
	APIInfo     APIInfo `json:"api_info" binding:"required"`
	Auth        *Auth   `json:"auth,omitempty"`
	Description string  `json:"description,omitempty"`
}

// CreateToolFromSpecRequest registers a tool from an inline OpenAPI spec
type CreateToolFromSpecRequest struct {
	GatewayID   string                 `json:"gateway_id" binding:"required"`
	ToolName    string                 `json:"tool_name" binding:"required"`
	OpenAPISpec map[string]interface{} `json:"openapi_spec" binding:"required"`
	Auth        *Auth                  `json:"auth,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// TargetConfigurationInput is the caller-supplied target configuration on
// update. An empty OpenAPIS3URI means "keep the stored descriptor URI".
type TargetConfigurationInput struct {
	OpenAPIS3URI         string `json:"openapi_s3_uri"`
	BucketOwnerAccountID string `json:"bucket_owner_account_id,omitempty"`
}

// UpdateToolRequest represents the request body for updating a tool.
// Omitted target_configuration or credential_provider_configurations are
// merged from the existing target.
type UpdateToolRequest struct {
	Name                             string                    `json:"name" binding:"required"`
	Description                      *string                   `json:"description,omitempty"`
	TargetConfiguration              *TargetConfigurationInput `json:"target_configuration,omitempty"`
	CredentialProviderConfigurations []CredentialConfig        `json:"credential_provider_configurations,omitempty"`
}

// ToolResponse represents the full target representation returned by
// mutating endpoints
type ToolResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	ToolName                         string             `json:"tool_name"`
	GatewayID                        string             `json:"gateway_id"`
	TargetID                         string             `json:"target_id,omitempty"`
	GatewayARN                       string             `json:"gateway_arn,omitempty"`
	Description                      string             `json:"description,omitempty"`
	TargetStatus                     string             `json:"target_status,omitempty"`
	StatusReasons                    []string           `json:"status_reasons,omitempty"`
	OpenAPISpecURI                   string             `json:"openapi_spec_uri,omitempty"`
	CredentialProviderConfigurations []CredentialConfig `json:"credential_provider_configurations,omitempty"`
	CreatedAt                        *time.Time         `json:"created_at,omitempty"`
	UpdatedAt                        *time.Time         `json:"updated_at,omitempty"`
	LastSynchronizedAt               *time.Time         `json:"last_synchronized_at,omitempty"`
}

// ToResponse converts a domain Target to a ToolResponse DTO
func (t *Target) ToResponse(gatewayID, message string) ToolResponse {
	return ToolResponse{
		Status:                           "success",
		Message:                          message,
		ToolName:                         t.Name,
		GatewayID:                        gatewayID,
		TargetID:                         t.TargetID,
		GatewayARN:                       t.GatewayARN,
		Description:                      t.Description,
		TargetStatus:                     t.Status,
		StatusReasons:                    t.StatusReasons,
		OpenAPISpecURI:                   t.OpenAPISpecURI,
		CredentialProviderConfigurations: t.CredentialConfigs,
		CreatedAt:                        t.CreatedAt,
		UpdatedAt:                        t.UpdatedAt,
		LastSynchronizedAt:               t.LastSynchronizedAt,
	}
}

// ToolSummaryResponse is a single entry in a tool list response
type ToolSummaryResponse struct {
	TargetID    string     `json:"target_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ToResponse converts a domain TargetSummary to its list entry DTO
func (t *TargetSummary) ToResponse() ToolSummaryResponse {
	return ToolSummaryResponse{
		TargetID:    t.TargetID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToolListResponse represents the response for listing a gateway's tools
type ToolListResponse struct {
	Tools     []ToolSummaryResponse `json:"tools"`
	Total     int                   `json:"total"`
	NextToken string                `json:"next_token,omitempty"`
}

// DeleteToolResponse represents the response after initiating a target
// deletion. Deletion is asynchronous; the resource transitions to DELETING.
type DeleteToolResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TargetID     string `json:"target_id"`
	GatewayID    string `json:"gateway_id"`
	TargetStatus string `json:"target_status,omitempty"`
}
