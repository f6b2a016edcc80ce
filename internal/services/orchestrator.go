package services

import (
	"context"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
	"github.com/imyashkale/gatewayserver/internal/models"
)

// Orchestrator composes the AWS-facing services into the multi-step
// registration workflows: tool registration (spec upload, credential
// provisioning, target creation) and gateway provisioning (execution role,
// gateway creation).
type Orchestrator struct {
	specs    *SpecStore
	creds    *CredentialService
	targets  *TargetService
	gateways *GatewayService
	roles    *RoleService
	fetcher  *SpecFetcher
}

// NewOrchestrator creates a new orchestrator over the given services
func NewOrchestrator(specs *SpecStore, creds *CredentialService, targets *TargetService, gateways *GatewayService, roles *RoleService, fetcher *SpecFetcher) *Orchestrator {
	return &Orchestrator{
		specs:    specs,
		creds:    creds,
		targets:  targets,
		gateways: gateways,
		roles:    roles,
		fetcher:  fetcher,
	}
}

// RegisterToolParams holds the inputs shared by every tool registration
// variant once an OpenAPI document is in hand
type RegisterToolParams struct {
	GatewayID   string
	ToolName    string
	Spec        map[string]interface{}
	Auth        *models.Auth
	Description string
}

// RegisterTool runs the full registration workflow for a tool whose OpenAPI
// document is already materialized: validate, upload the descriptor, provision
// the credential provider, and create the gateway target. Steps are not
// rolled back on failure; a failed registration may leave an uploaded
// descriptor and a credential provider behind, both harmless and reusable.
func (o *Orchestrator) RegisterTool(ctx context.Context, p RegisterToolParams) (*models.Target, error) {
	if err := validateToolAuth(p.Auth); err != nil {
		return nil, err
	}

	if _, hasOpenAPI := p.Spec["openapi"]; !hasOpenAPI {
		if _, hasSwagger := p.Spec["swagger"]; !hasSwagger {
			return nil, apierrors.NewValidation("document is not an OpenAPI spec: missing 'openapi' or 'swagger' key")
		}
	}

	logger.WithFields(map[string]interface{}{
		"gateway_id": p.GatewayID,
		"tool_name":  p.ToolName,
	}).Info("Registering tool")

	specURI, err := o.specs.Put(ctx, p.Spec, p.ToolName, p.GatewayID)
	if err != nil {
		return nil, err
	}

	providerARN, keyParamName, keyLocation, err := o.provisionCredential(ctx, p.ToolName, p.Auth)
	if err != nil {
		return nil, err
	}

	return o.targets.Create(ctx, CreateTargetParams{
		GatewayID:             p.GatewayID,
		Name:                  p.ToolName,
		SpecURI:               specURI,
		CredentialProviderARN: providerARN,
		KeyParamName:          keyParamName,
		KeyLocation:           keyLocation,
		Description:           p.Description,
	})
}

// RegisterToolFromURL downloads the OpenAPI document from a caller-supplied
// URL and registers the tool
func (o *Orchestrator) RegisterToolFromURL(ctx context.Context, req models.CreateToolFromURLRequest) (*models.Target, error) {
	spec, err := o.fetcher.Download(ctx, req.OpenAPISpecURL)
	if err != nil {
		return nil, err
	}

	return o.RegisterTool(ctx, RegisterToolParams{
		GatewayID:   req.GatewayID,
		ToolName:    req.ToolName,
		Spec:        spec,
		Auth:        req.Auth,
		Description: req.Description,
	})
}

// RegisterToolFromAPIInfo synthesizes a minimal OpenAPI document from manual
// API information and registers the tool
func (o *Orchestrator) RegisterToolFromAPIInfo(ctx context.Context, req models.CreateToolFromAPIInfoRequest) (*models.Target, error) {
	spec, err := SynthesizeOpenAPISpec(SynthesizeSpecParams{
		ToolName:    req.ToolName,
		Method:      req.APIInfo.Method,
		URL:         req.APIInfo.URL,
		QueryParams: req.APIInfo.QueryParams,
		Headers:     req.APIInfo.Headers,
		BodySchema:  req.APIInfo.BodySchema,
		Description: req.APIInfo.Description,
	})
	if err != nil {
		return nil, err
	}

	return o.RegisterTool(ctx, RegisterToolParams{
		GatewayID:   req.GatewayID,
		ToolName:    req.ToolName,
		Spec:        spec,
		Auth:        req.Auth,
		Description: req.Description,
	})
}

// ProvisionGateway creates the execution role (idempotently) and then the
// gateway itself
func (o *Orchestrator) ProvisionGateway(ctx context.Context, roleName string, p CreateGatewayParams) (*models.Gateway, error) {
	roleARN, err := o.roles.GetOrCreateRole(ctx, roleName)
	if err != nil {
		return nil, err
	}

	p.RoleARN = roleARN
	return o.gateways.Create(ctx, p)
}

// provisionCredential resolves the auth block into a credential provider ARN
// plus injection settings. Tools without API-key auth still get a provider:
// the target schema requires one, so a placeholder key is provisioned under
// a header no real API reads.
func (o *Orchestrator) provisionCredential(ctx context.Context, toolName string, auth *models.Auth) (providerARN, keyParamName, keyLocation string, err error) {
	if auth != nil && auth.Type == models.AuthTypeAPIKey {
		keyParamName = auth.Config.APIKeyParamName
		if keyParamName == "" {
			keyParamName = "api_key"
		}
		keyLocation = auth.Config.APIKeyLocation
		if keyLocation == "" {
			keyLocation = models.KeyLocationQuery
		}

		providerARN, err = o.creds.CreateAPIKeyProvider(ctx, auth.ProviderName, auth.Config.APIKey)
		return providerARN, keyParamName, keyLocation, err
	}

	providerARN, err = o.creds.CreateAPIKeyProvider(ctx, toolName+"-placeholder-apikey", "placeholder")
	return providerARN, "X-Placeholder-Auth", models.KeyLocationHeader, err
}

// validateToolAuth checks the cross-field constraints on a tool's auth
// block. api_key auth requires both the key value and a provider name;
// the location, when given, must be a supported injection point.
func validateToolAuth(auth *models.Auth) error {
	if auth == nil {
		return nil
	}

	switch auth.Type {
	case models.AuthTypeAPIKey:
		if auth.Config.APIKey == "" {
			return apierrors.NewValidation("auth type 'api_key' requires config.api_key")
		}
		if auth.ProviderName == "" {
			return apierrors.NewValidation("auth type 'api_key' requires provider_name")
		}
		if loc := auth.Config.APIKeyLocation; loc != "" && loc != models.KeyLocationQuery && loc != models.KeyLocationHeader {
			return apierrors.NewValidation("api_key_location must be %s or %s, got '%s'",
				models.KeyLocationQuery, models.KeyLocationHeader, loc)
		}
	case models.AuthTypeOAuth:
		// Accepted but no provider-side configuration is attached yet;
		// the target is created with a placeholder credential.
	default:
		return apierrors.NewValidation("unsupported auth type '%s'", auth.Type)
	}

	return nil
}
