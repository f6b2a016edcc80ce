package models

import "time"

// CredentialConfig binds a credential provider to a target, naming the
// parameter and location the key is injected into on outbound calls.
type CredentialConfig struct {
	ProviderARN   string `json:"provider_arn"`
	ParameterName string `json:"parameter_name"`
	Location      string `json:"location"` // QUERY_PARAMETER or HEADER
}

// Target represents the domain model for a gateway target (tool).
// It mirrors the remote resource; this process owns no persistent copy.
type Target struct {
	TargetID           string
	Name               string
	Description        string
	Status             string // CREATING, UPDATING, READY, FAILED, DELETING, SYNCHRONIZING, ...
	StatusReasons      []string
	GatewayARN         string
	OpenAPISpecURI     string // storage URI of the descriptor document
	CredentialConfigs  []CredentialConfig
	CreatedAt          *time.Time
	UpdatedAt          *time.Time
	LastSynchronizedAt *time.Time
}

// TargetSummary is the trimmed target shape returned by list calls
type TargetSummary struct {
	TargetID    string
	Name        string
	Description string
	Status      string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}
