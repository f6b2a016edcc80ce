package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	agentcore "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	actypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/models"
)

// MockGatewayClient is a mock implementation of the gateway control-plane
// client for testing
type MockGatewayClient struct {
	createFunc func(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error)
	getFunc    func(ctx context.Context, params *agentcore.GetGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayOutput, error)
	listFunc   func(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error)
	updateFunc func(ctx context.Context, params *agentcore.UpdateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.UpdateGatewayOutput, error)
	deleteFunc func(ctx context.Context, params *agentcore.DeleteGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.DeleteGatewayOutput, error)
}

func (m *MockGatewayClient) CreateGateway(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error) {
	return m.createFunc(ctx, params, optFns...)
}

func (m *MockGatewayClient) GetGateway(ctx context.Context, params *agentcore.GetGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayOutput, error) {
	return m.getFunc(ctx, params, optFns...)
}

func (m *MockGatewayClient) ListGateways(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error) {
	return m.listFunc(ctx, params, optFns...)
}

func (m *MockGatewayClient) UpdateGateway(ctx context.Context, params *agentcore.UpdateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.UpdateGatewayOutput, error) {
	return m.updateFunc(ctx, params, optFns...)
}

func (m *MockGatewayClient) DeleteGateway(ctx context.Context, params *agentcore.DeleteGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.DeleteGatewayOutput, error) {
	return m.deleteFunc(ctx, params, optFns...)
}

// TestCreateGateway_WithJWT tests creation of an authenticated gateway
func TestCreateGateway_WithJWT(t *testing.T) {
	mock := &MockGatewayClient{
		createFunc: func(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error) {
			if params.AuthorizerType != actypes.AuthorizerType("CUSTOM_JWT") {
				t.Errorf("Expected CUSTOM_JWT authorizer, got %s", params.AuthorizerType)
			}
			member, ok := params.AuthorizerConfiguration.(*actypes.AuthorizerConfigurationMemberCustomJWTAuthorizer)
			if !ok {
				t.Fatalf("Expected custom JWT authorizer configuration, got %T", params.AuthorizerConfiguration)
			}
			if len(member.Value.AllowedClients) != 1 || member.Value.AllowedClients[0] != "client-1" {
				t.Errorf("Unexpected allowed clients: %v", member.Value.AllowedClients)
			}
			return &agentcore.CreateGatewayOutput{
				GatewayId:      aws.String("GW1"),
				GatewayUrl:     aws.String("https://gw1.example.com/mcp"),
				Name:           params.Name,
				Status:         actypes.GatewayStatusCreating,
				AuthorizerType: actypes.AuthorizerType("CUSTOM_JWT"),
				ProtocolType:   actypes.GatewayProtocolType("MCP"),
			}, nil
		},
	}

	gs := NewGatewayService(mock)
	gateway, err := gs.Create(context.Background(), CreateGatewayParams{
		Name:          "demo",
		RoleARN:       "arn:aws:iam::123456789012:role/gw-role",
		Authenticated: true,
		JWTConfig: &models.JWTAuthorizerConfig{
			AllowedClients: []string{"client-1"},
			DiscoveryURL:   "https://example.com/.well-known/openid-configuration",
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if gateway.GatewayID != "GW1" {
		t.Errorf("Expected gateway ID GW1, got %s", gateway.GatewayID)
	}
	if gateway.Status != "CREATING" {
		t.Errorf("Expected status CREATING, got %s", gateway.Status)
	}
}

// TestCreateGateway_MissingJWTConfig tests validation of authenticated
// creation without JWT settings
func TestCreateGateway_MissingJWTConfig(t *testing.T) {
	gs := NewGatewayService(&MockGatewayClient{})

	_, err := gs.Create(context.Background(), CreateGatewayParams{
		Name:          "demo",
		RoleARN:       "arn:aws:iam::123456789012:role/gw-role",
		Authenticated: true,
	})

	var validation *apierrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

// TestCreateGateway_ConflictResolvesToExisting tests that a name conflict
// falls back to list + get instead of failing
func TestCreateGateway_ConflictResolvesToExisting(t *testing.T) {
	mock := &MockGatewayClient{
		createFunc: func(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error) {
			return nil, &actypes.ConflictException{Message: aws.String("gateway already exists")}
		},
		listFunc: func(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error) {
			// First page misses, second page hits
			if params.NextToken == nil {
				return &agentcore.ListGatewaysOutput{
					Items: []actypes.GatewaySummary{
						{GatewayId: aws.String("GW-OTHER"), Name: aws.String("other")},
					},
					NextToken: aws.String("page2"),
				}, nil
			}
			return &agentcore.ListGatewaysOutput{
				Items: []actypes.GatewaySummary{
					{GatewayId: aws.String("GW-EXISTING"), Name: aws.String("demo")},
				},
			}, nil
		},
		getFunc: func(ctx context.Context, params *agentcore.GetGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayOutput, error) {
			return &agentcore.GetGatewayOutput{
				GatewayId: params.GatewayIdentifier,
				Name:      aws.String("demo"),
				Status:    actypes.GatewayStatusReady,
			}, nil
		},
	}

	gs := NewGatewayService(mock)
	gateway, err := gs.Create(context.Background(), CreateGatewayParams{
		Name:    "demo",
		RoleARN: "arn:aws:iam::123456789012:role/gw-role",
	})
	if err != nil {
		t.Fatalf("Create should resolve to the existing gateway, got %v", err)
	}

	if gateway.GatewayID != "GW-EXISTING" {
		t.Errorf("Expected GW-EXISTING, got %s", gateway.GatewayID)
	}
}

// TestCreateGateway_ConflictButUnlisted tests the inconsistent case where
// the name conflicts but never appears in listings
func TestCreateGateway_ConflictButUnlisted(t *testing.T) {
	mock := &MockGatewayClient{
		createFunc: func(ctx context.Context, params *agentcore.CreateGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateGatewayOutput, error) {
			return nil, &actypes.ConflictException{Message: aws.String("gateway already exists")}
		},
		listFunc: func(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error) {
			return &agentcore.ListGatewaysOutput{}, nil
		},
	}

	gs := NewGatewayService(mock)
	_, err := gs.Create(context.Background(), CreateGatewayParams{
		Name:    "ghost",
		RoleARN: "arn:aws:iam::123456789012:role/gw-role",
	})

	var notFound *apierrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

// TestGetGateway_NotFound tests not-found mapping on retrieval
func TestGetGateway_NotFound(t *testing.T) {
	mock := &MockGatewayClient{
		getFunc: func(ctx context.Context, params *agentcore.GetGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.GetGatewayOutput, error) {
			return nil, &actypes.ResourceNotFoundException{Message: aws.String("no such gateway")}
		},
	}

	gs := NewGatewayService(mock)
	_, err := gs.Get(context.Background(), "GW-MISSING")

	var notFound *apierrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

// TestListGateways_MaxResultsBounds tests pagination bound enforcement
func TestListGateways_MaxResultsBounds(t *testing.T) {
	mock := &MockGatewayClient{
		listFunc: func(ctx context.Context, params *agentcore.ListGatewaysInput, optFns ...func(*agentcore.Options)) (*agentcore.ListGatewaysOutput, error) {
			return &agentcore.ListGatewaysOutput{}, nil
		},
	}
	gs := NewGatewayService(mock)

	tests := []struct {
		name       string
		maxResults int32
		wantErr    bool
	}{
		{"Zero rejected", 0, true},
		{"Negative rejected", -1, true},
		{"Above cap rejected", 1001, true},
		{"Lower bound accepted", 1, false},
		{"Upper bound accepted", 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.maxResults
			_, _, err := gs.List(context.Background(), &v, "")
			if tt.wantErr {
				var validation *apierrors.ValidationError
				if !errors.As(err, &validation) {
					t.Errorf("max_results=%d: expected ValidationError, got %v", tt.maxResults, err)
				}
			} else if err != nil {
				t.Errorf("max_results=%d: unexpected error %v", tt.maxResults, err)
			}
		})
	}
}

// TestUpdateGateway_RejectsUnknownProtocol tests protocol validation
func TestUpdateGateway_RejectsUnknownProtocol(t *testing.T) {
	gs := NewGatewayService(&MockGatewayClient{})

	_, err := gs.Update(context.Background(), "GW1", UpdateGatewayParams{
		Name:           "demo",
		ProtocolType:   "HTTP",
		AuthorizerType: AuthorizerNone,
		RoleARN:        "arn:aws:iam::123456789012:role/gw-role",
	})

	var validation *apierrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for protocol HTTP, got %v", err)
	}
}

// TestUpdateGateway_RejectsUnknownAuthorizer tests authorizer validation
func TestUpdateGateway_RejectsUnknownAuthorizer(t *testing.T) {
	gs := NewGatewayService(&MockGatewayClient{})

	_, err := gs.Update(context.Background(), "GW1", UpdateGatewayParams{
		Name:           "demo",
		AuthorizerType: "BASIC",
		RoleARN:        "arn:aws:iam::123456789012:role/gw-role",
	})

	var validation *apierrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for authorizer BASIC, got %v", err)
	}
}

// TestDeleteGateway_NotFound tests not-found mapping on deletion
func TestDeleteGateway_NotFound(t *testing.T) {
	mock := &MockGatewayClient{
		deleteFunc: func(ctx context.Context, params *agentcore.DeleteGatewayInput, optFns ...func(*agentcore.Options)) (*agentcore.DeleteGatewayOutput, error) {
			return nil, &actypes.ResourceNotFoundException{Message: aws.String("no such gateway")}
		},
	}

	gs := NewGatewayService(mock)
	err := gs.Delete(context.Background(), "GW-MISSING")

	var notFound *apierrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
