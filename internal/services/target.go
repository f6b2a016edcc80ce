package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	agentcore "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	actypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
	"github.com/imyashkale/gatewayserver/internal/models"
)

// TargetAPI is the subset of the control-plane client used by the target
// lifecycle manager
type TargetAPI interface {
	CreateGatewayTarget(ctx context.Context, params *agentcore.CreateGatewayTargetInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayTargetOutput, error)
	GetGatewayTarget(ctx context.Context, params *agentcore.GetGatewayTargetInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayTargetOutput, error)
	ListGatewayTargets(ctx context.Context, params *agentcore.ListGatewayTargetsInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewayTargetsOutput, error)
	UpdateGatewayTarget(ctx context.Context, params *agentcore.UpdateGatewayTargetInput, optFns ...func(*agentcore.Options)) (*agentcore.UpdateGatewayTargetOutput, error)
	DeleteGatewayTarget(ctx context.Context, params *agentcore.DeleteGatewayTargetInput, optFns ...func(*agentcore.Options)) (*agentcore.DeleteGatewayTargetOutput, error)
}

// TargetService manages gateway targets (tools)
type TargetService struct {
	client TargetAPI
}

// NewTargetService creates a new target service
func NewTargetService(client TargetAPI) *TargetService {
	return &TargetService{client: client}
}

// CreateTargetParams holds the inputs for target creation
type CreateTargetParams struct {
	GatewayID             string
	Name                  string
	SpecURI               string // storage URI of the OpenAPI descriptor
	CredentialProviderARN string
	KeyParamName          string
	KeyLocation           string // QUERY_PARAMETER or HEADER
	Description           string
}

// Create registers a target bound to an OpenAPI descriptor and a single
// API-key credential configuration. A duplicate name on the gateway fails
// with DuplicateResourceError; targets are caller-managed by unique name.
func (ts *TargetService) Create(ctx context.Context, p CreateTargetParams) (*models.Target, error) {
	description := p.Description
	if description == "" {
		description = "OpenAPI target: " + p.Name
	}

	logger.WithFields(map[string]interface{}{
		"gateway_id":  p.GatewayID,
		"target_name": p.Name,
	}).Info("Creating gateway target")

	output, err := ts.client.CreateGatewayTarget(ctx, &agentcore.CreateGatewayTargetInput{
		GatewayIdentifier:   aws.String(p.GatewayID),
		Name:                aws.String(p.Name),
		Description:         aws.String(description),
		TargetConfiguration: buildOpenAPITargetConfiguration(p.SpecURI, ""),
		CredentialProviderConfigurations: buildCredentialConfigurations([]models.CredentialConfig{
			{
				ProviderARN:   p.CredentialProviderARN,
				ParameterName: p.KeyParamName,
				Location:      p.KeyLocation,
			},
		}),
	})
	if err != nil {
		var conflict *actypes.ConflictException
		if errors.As(err, &conflict) {
			return nil, apierrors.NewDuplicate("target", p.Name, "use a unique tool name on this gateway")
		}
		return nil, apierrors.NewUpstream("create gateway target", err)
	}

	return targetFromCreate(output), nil
}

// Get retrieves a target by ID
func (ts *TargetService) Get(ctx context.Context, gatewayID, targetID string) (*models.Target, error) {
	output, err := ts.client.GetGatewayTarget(ctx, &agentcore.GetGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		TargetId:          aws.String(targetID),
	})
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apierrors.NewNotFound("target", targetID)
		}
		return nil, apierrors.NewUpstream("get gateway target", err)
	}

	return targetFromGet(output), nil
}

// List returns a page of target summaries for a gateway. Same pagination
// bounds as gateway listing.
func (ts *TargetService) List(ctx context.Context, gatewayID string, maxResults *int32, nextToken string) ([]models.TargetSummary, string, error) {
	if err := validateMaxResults(maxResults); err != nil {
		return nil, "", err
	}

	input := &agentcore.ListGatewayTargetsInput{
		GatewayIdentifier: aws.String(gatewayID),
		MaxResults:        maxResults,
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	output, err := ts.client.ListGatewayTargets(ctx, input)
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, "", apierrors.NewNotFound("gateway", gatewayID)
		}
		return nil, "", apierrors.NewUpstream("list gateway targets", err)
	}

	summaries := make([]models.TargetSummary, 0, len(output.Items))
	for _, item := range output.Items {
		summaries = append(summaries, models.TargetSummary{
			TargetID:    aws.ToString(item.TargetId),
			Name:        aws.ToString(item.Name),
			Description: aws.ToString(item.Description),
			Status:      string(item.Status),
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	return summaries, aws.ToString(output.NextToken), nil
}

// UpdateTargetParams holds the inputs for a target update. Nil
// TargetConfiguration or CredentialConfigs mean "reuse the stored value".
type UpdateTargetParams struct {
	Name                string
	Description         *string
	TargetConfiguration *models.TargetConfigurationInput
	CredentialConfigs   []models.CredentialConfig
}

// Update modifies a target with merge semantics: an omitted configuration
// is reused wholesale from the existing target; a supplied configuration
// with an empty descriptor URI has the stored URI spliced in field-by-field;
// omitted credential configurations are reused verbatim. When the merge
// needs the existing target and it cannot be fetched, the update fails with
// ValidationError because no valid request can be constructed.
func (ts *TargetService) Update(ctx context.Context, gatewayID, targetID string, p UpdateTargetParams) (*models.Target, error) {
	needExisting := p.TargetConfiguration == nil ||
		p.TargetConfiguration.OpenAPIS3URI == "" ||
		p.CredentialConfigs == nil

	var existing *agentcore.GetGatewayTargetOutput
	if needExisting {
		var err error
		existing, err = ts.client.GetGatewayTarget(ctx, &agentcore.GetGatewayTargetInput{
			GatewayIdentifier: aws.String(gatewayID),
			TargetId:          aws.String(targetID),
		})
		if err != nil {
			return nil, apierrors.NewValidation(
				"cannot construct update for target '%s': configuration omitted and existing target could not be fetched", targetID)
		}
	}

	var targetCfg actypes.TargetConfiguration
	if p.TargetConfiguration == nil {
		targetCfg = existing.TargetConfiguration
	} else {
		specURI := p.TargetConfiguration.OpenAPIS3URI
		if specURI == "" {
			specURI = openAPISpecURI(existing.TargetConfiguration)
		}
		targetCfg = buildOpenAPITargetConfiguration(specURI, p.TargetConfiguration.BucketOwnerAccountID)
	}

	var credCfgs []actypes.CredentialProviderConfiguration
	if p.CredentialConfigs == nil {
		credCfgs = existing.CredentialProviderConfigurations
	} else {
		credCfgs = buildCredentialConfigurations(p.CredentialConfigs)
	}

	output, err := ts.client.UpdateGatewayTarget(ctx, &agentcore.UpdateGatewayTargetInput{
		GatewayIdentifier:                aws.String(gatewayID),
		TargetId:                         aws.String(targetID),
		Name:                             aws.String(p.Name),
		Description:                      p.Description,
		TargetConfiguration:              targetCfg,
		CredentialProviderConfigurations: credCfgs,
	})
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apierrors.NewNotFound("target", targetID)
		}
		return nil, apierrors.NewUpstream("update gateway target", err)
	}

	return targetFromUpdate(output), nil
}

// Delete initiates target deletion. The resource transitions to DELETING
// asynchronously; this call does not wait for a terminal state.
func (ts *TargetService) Delete(ctx context.Context, gatewayID, targetID string) (*models.Target, error) {
	output, err := ts.client.DeleteGatewayTarget(ctx, &agentcore.DeleteGatewayTargetInput{
		GatewayIdentifier: aws.String(gatewayID),
		TargetId:          aws.String(targetID),
	})
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apierrors.NewNotFound("target", targetID)
		}
		return nil, apierrors.NewUpstream("delete gateway target", err)
	}

	return &models.Target{
		TargetID:      aws.ToString(output.TargetId),
		GatewayARN:    aws.ToString(output.GatewayArn),
		Status:        string(output.Status),
		StatusReasons: output.StatusReasons,
	}, nil
}

// buildOpenAPITargetConfiguration wraps a descriptor storage URI in the
// nested MCP/OpenAPI/S3 configuration variant
func buildOpenAPITargetConfiguration(specURI, bucketOwnerAccountID string) actypes.TargetConfiguration {
	s3Config := actypes.S3Configuration{
		Uri: aws.String(specURI),
	}
	if bucketOwnerAccountID != "" {
		s3Config.BucketOwnerAccountId = aws.String(bucketOwnerAccountID)
	}

	return &actypes.TargetConfigurationMemberMcp{
		Value: &actypes.McpTargetConfigurationMemberOpenApiSchema{
			Value: &actypes.ApiSchemaConfigurationMemberS3{
				Value: s3Config,
			},
		},
	}
}

// buildCredentialConfigurations converts domain credential configs into the
// API_KEY credential provider variant
func buildCredentialConfigurations(configs []models.CredentialConfig) []actypes.CredentialProviderConfiguration {
	out := make([]actypes.CredentialProviderConfiguration, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, actypes.CredentialProviderConfiguration{
			CredentialProviderType: actypes.CredentialProviderTypeApiKey,
			CredentialProvider: &actypes.CredentialProviderMemberApiKeyCredentialProvider{
				Value: actypes.GatewayApiKeyCredentialProvider{
					ProviderArn:             aws.String(cfg.ProviderARN),
					CredentialParameterName: aws.String(cfg.ParameterName),
					CredentialLocation:      actypes.ApiKeyCredentialLocation(cfg.Location),
				},
			},
		})
	}
	return out
}

// openAPISpecURI walks the target configuration unions down to the S3 URI,
// returning "" for non-OpenAPI variants
func openAPISpecURI(cfg actypes.TargetConfiguration) string {
	mcp, ok := cfg.(*actypes.TargetConfigurationMemberMcp)
	if !ok {
		return ""
	}
	schema, ok := mcp.Value.(*actypes.McpTargetConfigurationMemberOpenApiSchema)
	if !ok {
		return ""
	}
	s3Config, ok := schema.Value.(*actypes.ApiSchemaConfigurationMemberS3)
	if !ok {
		return ""
	}
	return aws.ToString(s3Config.Value.Uri)
}

// credentialConfigsFromSDK converts API_KEY credential provider variants
// back into domain configs, skipping other variants
func credentialConfigsFromSDK(configs []actypes.CredentialProviderConfiguration) []models.CredentialConfig {
	out := make([]models.CredentialConfig, 0, len(configs))
	for _, cfg := range configs {
		member, ok := cfg.CredentialProvider.(*actypes.CredentialProviderMemberApiKeyCredentialProvider)
		if !ok {
			continue
		}
		out = append(out, models.CredentialConfig{
			ProviderARN:   aws.ToString(member.Value.ProviderArn),
			ParameterName: aws.ToString(member.Value.CredentialParameterName),
			Location:      string(member.Value.CredentialLocation),
		})
	}
	return out
}

func targetFromCreate(out *agentcore.CreateGatewayTargetOutput) *models.Target {
	return &models.Target{
		TargetID:           aws.ToString(out.TargetId),
		Name:               aws.ToString(out.Name),
		Description:        aws.ToString(out.Description),
		Status:             string(out.Status),
		StatusReasons:      out.StatusReasons,
		GatewayARN:         aws.ToString(out.GatewayArn),
		OpenAPISpecURI:     openAPISpecURI(out.TargetConfiguration),
		CredentialConfigs:  credentialConfigsFromSDK(out.CredentialProviderConfigurations),
		CreatedAt:          out.CreatedAt,
		UpdatedAt:          out.UpdatedAt,
		LastSynchronizedAt: out.LastSynchronizedAt,
	}
}

func targetFromGet(out *agentcore.GetGatewayTargetOutput) *models.Target {
	return &models.Target{
		TargetID:           aws.ToString(out.TargetId),
		Name:               aws.ToString(out.Name),
		Description:        aws.ToString(out.Description),
		Status:             string(out.Status),
		StatusReasons:      out.StatusReasons,
		GatewayARN:         aws.ToString(out.GatewayArn),
		OpenAPISpecURI:     openAPISpecURI(out.TargetConfiguration),
		CredentialConfigs:  credentialConfigsFromSDK(out.CredentialProviderConfigurations),
		CreatedAt:          out.CreatedAt,
		UpdatedAt:          out.UpdatedAt,
		LastSynchronizedAt: out.LastSynchronizedAt,
	}
}

func targetFromUpdate(out *agentcore.UpdateGatewayTargetOutput) *models.Target {
	return &models.Target{
		TargetID:           aws.ToString(out.TargetId),
		Name:               aws.ToString(out.Name),
		Description:        aws.ToString(out.Description),
		Status:             string(out.Status),
		StatusReasons:      out.StatusReasons,
		GatewayARN:         aws.ToString(out.GatewayArn),
		OpenAPISpecURI:     openAPISpecURI(out.TargetConfiguration),
		CredentialConfigs:  credentialConfigsFromSDK(out.CredentialProviderConfigurations),
		CreatedAt:          out.CreatedAt,
		UpdatedAt:          out.UpdatedAt,
		LastSynchronizedAt: out.LastSynchronizedAt,
	}
}
