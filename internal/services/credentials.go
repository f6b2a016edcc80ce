package services

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	agentcore "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	actypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/aws/smithy-go"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
)

// CredentialProviderAPI is the subset of the control-plane client used by
// the credential provisioner
type CredentialProviderAPI interface {
	CreateApiKeyCredentialProvider(ctx context.Context, params *agentcore.CreateApiKeyCredentialProviderInput, optFns ...func(*agentcore.Options)) (*agentcore.CreateApiKeyCredentialProviderOutput, error)
}

// CredentialService provisions API-key credential providers. Unlike
// gateways and roles, a name collision here is NOT resolved by lookup:
// credential values are sensitive and silently reusing an existing provider
// could bind an unintended secret to a new target.
type CredentialService struct {
	client CredentialProviderAPI
}

// NewCredentialService creates a new credential service
func NewCredentialService(client CredentialProviderAPI) *CredentialService {
	return &CredentialService{client: client}
}

// CreateAPIKeyProvider creates a named secret-backed credential provider
// holding the given API key and returns its ARN. A duplicate name fails
// with DuplicateResourceError.
func (cs *CredentialService) CreateAPIKeyProvider(ctx context.Context, providerName, apiKey string) (string, error) {
	logger.WithField("provider_name", providerName).Info("Creating credential provider")

	output, err := cs.client.CreateApiKeyCredentialProvider(ctx, &agentcore.CreateApiKeyCredentialProviderInput{
		Name:   aws.String(providerName),
		ApiKey: aws.String(apiKey),
	})
	if err != nil {
		if isConflict(err) {
			return "", apierrors.NewDuplicate(
				"credential provider", providerName,
				"use a unique name or manage provider updates out of band",
			)
		}
		return "", apierrors.NewUpstream("create credential provider", err)
	}

	return aws.ToString(output.CredentialProviderArn), nil
}

// isConflict recognizes name collisions: the typed ConflictException, the
// generic API error code, or a message-level match for providers that wrap
// the conflict in a validation response
func isConflict(err error) bool {
	var conflict *actypes.ConflictException
	if errors.As(err, &conflict) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConflictException" {
		return true
	}

	return strings.Contains(err.Error(), "already exists")
}
