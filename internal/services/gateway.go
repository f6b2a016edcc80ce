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

// The only protocol the gateway control plane supports
const ProtocolMCP = "MCP"

// Authorizer types accepted on gateway create/update
const (
	AuthorizerCustomJWT = "CUSTOM_JWT"
	AuthorizerAWSIAM    = "AWS_IAM"
	AuthorizerNone      = "NONE"
)

// GatewayAPI is the subset of the control-plane client used by the gateway
// lifecycle manager
type GatewayAPI interface {
	CreateGateway(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error)
	GetGateway(ctx context.Context, params *agentcore.GetGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayOutput, error)
	ListGateways(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error)
	UpdateGateway(ctx context.Context, params *agentcore.UpdateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.UpdateGatewayOutput, error)
	DeleteGateway(ctx context.Context, params *agentcore.DeleteGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.DeleteGatewayOutput, error)
}

// GatewayService manages the gateway resource lifecycle
type GatewayService struct {
	client GatewayAPI
}

// NewGatewayService creates a new gateway service
func NewGatewayService(client GatewayAPI) *GatewayService {
	return &GatewayService{client: client}
}

// CreateGatewayParams holds the inputs for gateway creation
type CreateGatewayParams struct {
	Name          string
	RoleARN       string
	Authenticated bool
	JWTConfig     *models.JWTAuthorizerConfig // required when Authenticated
	Description   string
}

// Create provisions a gateway with either a custom JWT authorizer or no
// authentication. Creation is idempotent by name: a name conflict resolves
// to the existing gateway via list + exact-name match.
func (gs *GatewayService) Create(ctx context.Context, p CreateGatewayParams) (*models.Gateway, error) {
	if p.Name == "" || p.RoleARN == "" {
		return nil, apierrors.NewValidation("gateway name and role ARN are required")
	}

	input := &agentcore.CreateGatewayInput{
		Name:         aws.String(p.Name),
		RoleArn:      aws.String(p.RoleARN),
		ProtocolType: actypes.GatewayProtocolType(ProtocolMCP),
	}

	if p.Authenticated {
		if p.JWTConfig == nil || len(p.JWTConfig.AllowedClients) == 0 || p.JWTConfig.DiscoveryURL == "" {
			return nil, apierrors.NewValidation("authenticated gateways require allowed clients and a discovery URL")
		}
		input.AuthorizerType = actypes.AuthorizerType(AuthorizerCustomJWT)
		input.AuthorizerConfiguration = &actypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: actypes.CustomJWTAuthorizerConfiguration{
				AllowedClients: p.JWTConfig.AllowedClients,
				DiscoveryUrl:   aws.String(p.JWTConfig.DiscoveryURL),
			},
		}
		if p.Description == "" {
			p.Description = "MCP gateway with OpenAPI targets"
		}
	} else {
		input.AuthorizerType = actypes.AuthorizerType(AuthorizerNone)
		if p.Description == "" {
			p.Description = "MCP gateway without authentication"
		}
	}
	input.Description = aws.String(p.Description)

	logger.WithField("gateway_name", p.Name).Info("Creating gateway")

	output, err := gs.client.CreateGateway(ctx, input)
	if err != nil {
		var conflict *actypes.ConflictException
		if !errors.As(err, &conflict) {
			return nil, apierrors.NewUpstream("create gateway", err)
		}
		// Name exists; resolve to the existing gateway instead of failing
		logger.WithField("gateway_name", p.Name).Info("Gateway name exists, retrieving existing gateway")
		return gs.findByName(ctx, p.Name)
	}

	return gatewayFromCreate(output), nil
}

// findByName scans all gateways for an exact name match and fetches the
// full resource. Used to resolve create conflicts; a miss here means the
// provider claims the name exists but doesn't list it.
func (gs *GatewayService) findByName(ctx context.Context, name string) (*models.Gateway, error) {
	var nextToken *string
	for {
		output, err := gs.client.ListGateways(ctx, &agentcore.ListGatewaysInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, apierrors.NewUpstream("list gateways", err)
		}

		for _, item := range output.Items {
			if aws.ToString(item.Name) == name {
				return gs.Get(ctx, aws.ToString(item.GatewayId))
			}
		}

		if output.NextToken == nil {
			return nil, apierrors.NewNotFound("gateway", name)
		}
		nextToken = output.NextToken
	}
}

// Get retrieves a gateway by ID
func (gs *GatewayService) Get(ctx context.Context, gatewayID string) (*models.Gateway, error) {
	output, err := gs.client.GetGateway(ctx, &agentcore.GetGatewayInput{
		GatewayIdentifier: aws.String(gatewayID),
	})
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apierrors.NewNotFound("gateway", gatewayID)
		}
		return nil, apierrors.NewUpstream("get gateway", err)
	}

	return gatewayFromGet(output), nil
}

// List returns a page of gateway summaries. maxResults must be in [1, 1000]
// when provided; nextToken is passed through verbatim.
func (gs *GatewayService) List(ctx context.Context, maxResults *int32, nextToken string) ([]models.GatewaySummary, string, error) {
	if err := validateMaxResults(maxResults); err != nil {
		return nil, "", err
	}

	input := &agentcore.ListGatewaysInput{MaxResults: maxResults}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	output, err := gs.client.ListGateways(ctx, input)
	if err != nil {
		return nil, "", apierrors.NewUpstream("list gateways", err)
	}

	summaries := make([]models.GatewaySummary, 0, len(output.Items))
	for _, item := range output.Items {
		summaries = append(summaries, models.GatewaySummary{
			GatewayID:      aws.ToString(item.GatewayId),
			Name:           aws.ToString(item.Name),
			Description:    aws.ToString(item.Description),
			Status:         string(item.Status),
			AuthorizerType: string(item.AuthorizerType),
			ProtocolType:   string(item.ProtocolType),
			CreatedAt:      item.CreatedAt,
			UpdatedAt:      item.UpdatedAt,
		})
	}

	return summaries, aws.ToString(output.NextToken), nil
}

// UpdateGatewayParams holds the inputs for a gateway update
type UpdateGatewayParams struct {
	Name           string
	ProtocolType   string
	AuthorizerType string
	RoleARN        string
	Description    *string
	JWTConfig      *models.JWTAuthorizerConfig
}

// Update replaces a gateway's mutable configuration
func (gs *GatewayService) Update(ctx context.Context, gatewayID string, p UpdateGatewayParams) (*models.Gateway, error) {
	if p.ProtocolType != "" && p.ProtocolType != ProtocolMCP {
		return nil, apierrors.NewValidation("unsupported protocol type '%s': only %s is supported", p.ProtocolType, ProtocolMCP)
	}

	switch p.AuthorizerType {
	case AuthorizerCustomJWT, AuthorizerAWSIAM, AuthorizerNone:
	default:
		return nil, apierrors.NewValidation("unsupported authorizer type '%s'", p.AuthorizerType)
	}

	input := &agentcore.UpdateGatewayInput{
		GatewayIdentifier: aws.String(gatewayID),
		Name:              aws.String(p.Name),
		ProtocolType:      actypes.GatewayProtocolType(ProtocolMCP),
		AuthorizerType:    actypes.AuthorizerType(p.AuthorizerType),
		RoleArn:           aws.String(p.RoleARN),
		Description:       p.Description,
	}

	if p.JWTConfig != nil {
		input.AuthorizerConfiguration = &actypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: actypes.CustomJWTAuthorizerConfiguration{
				AllowedClients: p.JWTConfig.AllowedClients,
				DiscoveryUrl:   aws.String(p.JWTConfig.DiscoveryURL),
			},
		}
	}

	output, err := gs.client.UpdateGateway(ctx, input)
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, apierrors.NewNotFound("gateway", gatewayID)
		}
		return nil, apierrors.NewUpstream("update gateway", err)
	}

	return gatewayFromUpdate(output), nil
}

// Delete initiates gateway deletion. The resource transitions to DELETING
// asynchronously; this call does not wait for a terminal state.
func (gs *GatewayService) Delete(ctx context.Context, gatewayID string) error {
	_, err := gs.client.DeleteGateway(ctx, &agentcore.DeleteGatewayInput{
		GatewayIdentifier: aws.String(gatewayID),
	})
	if err != nil {
		var notFound *actypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return apierrors.NewNotFound("gateway", gatewayID)
		}
		return apierrors.NewUpstream("delete gateway", err)
	}

	return nil
}

// validateMaxResults enforces the shared pagination bound for list calls
func validateMaxResults(maxResults *int32) error {
	if maxResults != nil && (*maxResults < 1 || *maxResults > 1000) {
		return apierrors.NewValidation("max_results must be between 1 and 1000, got %d", *maxResults)
	}
	return nil
}

// jwtConfigFromSDK extracts the custom JWT settings from an authorizer
// configuration union, returning nil for other variants
func jwtConfigFromSDK(cfg actypes.AuthorizerConfiguration) *models.JWTAuthorizerConfig {
	member, ok := cfg.(*actypes.AuthorizerConfigurationMemberCustomJWTAuthorizer)
	if !ok {
		return nil
	}
	return &models.JWTAuthorizerConfig{
		AllowedClients: member.Value.AllowedClients,
		DiscoveryURL:   aws.ToString(member.Value.DiscoveryUrl),
	}
}

func gatewayFromCreate(out *agentcore.CreateGatewayOutput) *models.Gateway {
	return &models.Gateway{
		GatewayID:      aws.ToString(out.GatewayId),
		GatewayARN:     aws.ToString(out.GatewayArn),
		GatewayURL:     aws.ToString(out.GatewayUrl),
		Name:           aws.ToString(out.Name),
		Description:    aws.ToString(out.Description),
		Status:         string(out.Status),
		StatusReasons:  out.StatusReasons,
		AuthorizerType: string(out.AuthorizerType),
		ProtocolType:   string(out.ProtocolType),
		RoleARN:        aws.ToString(out.RoleArn),
		JWTConfig:      jwtConfigFromSDK(out.AuthorizerConfiguration),
		CreatedAt:      out.CreatedAt,
		UpdatedAt:      out.UpdatedAt,
	}
}

func gatewayFromGet(out *agentcore.GetGatewayOutput) *models.Gateway {
	return &models.Gateway{
		GatewayID:      aws.ToString(out.GatewayId),
		GatewayARN:     aws.ToString(out.GatewayArn),
		GatewayURL:     aws.ToString(out.GatewayUrl),
		Name:           aws.ToString(out.Name),
		Description:    aws.ToString(out.Description),
		Status:         string(out.Status),
		StatusReasons:  out.StatusReasons,
		AuthorizerType: string(out.AuthorizerType),
		ProtocolType:   string(out.ProtocolType),
		RoleARN:        aws.ToString(out.RoleArn),
		JWTConfig:      jwtConfigFromSDK(out.AuthorizerConfiguration),
		CreatedAt:      out.CreatedAt,
		UpdatedAt:      out.UpdatedAt,
	}
}

func gatewayFromUpdate(out *agentcore.UpdateGatewayOutput) *models.Gateway {
	return &models.Gateway{
		GatewayID:      aws.ToString(out.GatewayId),
		GatewayARN:     aws.ToString(out.GatewayArn),
		GatewayURL:     aws.ToString(out.GatewayUrl),
		Name:           aws.ToString(out.Name),
		Description:    aws.ToString(out.Description),
		Status:         string(out.Status),
		StatusReasons:  out.StatusReasons,
		AuthorizerType: string(out.AuthorizerType),
		ProtocolType:   string(out.ProtocolType),
		RoleARN:        aws.ToString(out.RoleArn),
		JWTConfig:      jwtConfigFromSDK(out.AuthorizerConfiguration),
		CreatedAt:      out.CreatedAt,
		UpdatedAt:      out.UpdatedAt,
	}
}
