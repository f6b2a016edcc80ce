package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
	"github.com/imyashkale/gatewayserver/internal/models"
)

// listPageSize bounds the list-scan used for name matching
const listPageSize = 60

// CognitoAPI is the subset of the Cognito IDP client used by the identity
// provisioner
type CognitoAPI interface {
	ListUserPools(ctx context.Context, params *cognito.ListUserPoolsInput, optFns ...func(*cognito.Options)) (*cognito.ListUserPoolsOutput, error)
	CreateUserPool(ctx context.Context, params *cognito.CreateUserPoolInput, optFns ...func(*cognito.Options)) (*cognito.CreateUserPoolOutput, error)
	ListResourceServers(ctx context.Context, params *cognito.ListResourceServersInput, optFns ...func(*cognito.Options)) (*cognito.ListResourceServersOutput, error)
	CreateResourceServer(ctx context.Context, params *cognito.CreateResourceServerInput, optFns ...func(*cognito.Options)) (*cognito.CreateResourceServerOutput, error)
	ListUserPoolClients(ctx context.Context, params *cognito.ListUserPoolClientsInput, optFns ...func(*cognito.Options)) (*cognito.ListUserPoolClientsOutput, error)
	DescribeUserPoolClient(ctx context.Context, params *cognito.DescribeUserPoolClientInput, optFns ...func(*cognito.Options)) (*cognito.DescribeUserPoolClientOutput, error)
	CreateUserPoolClient(ctx context.Context, params *cognito.CreateUserPoolClientInput, optFns ...func(*cognito.Options)) (*cognito.CreateUserPoolClientOutput, error)
}

// ScopeSpec describes a resource server scope
type ScopeSpec struct {
	Name        string
	Description string
}

// IdentityService provisions the reusable OAuth identity infrastructure
// (user pool, resource server, M2M client) and issues client-credential
// tokens. The provisioned resources are shared across gateways.
type IdentityService struct {
	cognito CognitoAPI
	http    *http.Client
	region  string
}

// NewIdentityService creates a new identity service
func NewIdentityService(cognitoClient CognitoAPI, region string) *IdentityService {
	return &IdentityService{
		cognito: cognitoClient,
		http:    &http.Client{Timeout: specDownloadTimeout},
		region:  region,
	}
}

// GetOrCreatePool returns the ID of the user pool with the given name,
// creating it if no pool matches. The scan matches by exact name; when
// duplicate names exist in the account, the first match wins.
func (is *IdentityService) GetOrCreatePool(ctx context.Context, poolName string) (string, error) {
	listOutput, err := is.cognito.ListUserPools(ctx, &cognito.ListUserPoolsInput{
		MaxResults: aws.Int32(listPageSize),
	})
	if err != nil {
		return "", apierrors.NewUpstream("list user pools", err)
	}

	for _, pool := range listOutput.UserPools {
		if aws.ToString(pool.Name) == poolName {
			return aws.ToString(pool.Id), nil
		}
	}

	createOutput, err := is.cognito.CreateUserPool(ctx, &cognito.CreateUserPoolInput{
		PoolName: aws.String(poolName),
	})
	if err != nil {
		return "", apierrors.NewUpstream("create user pool", err)
	}

	logger.WithField("pool_id", aws.ToString(createOutput.UserPool.Id)).Info("Created Cognito user pool")
	return aws.ToString(createOutput.UserPool.Id), nil
}

// GetOrCreateResourceServer returns the resource server with the given
// identifier, creating it with the supplied scopes if absent. Scopes are
// NOT merged into an existing server: if the server already exists, the
// supplied scopes are ignored and the stored ones remain authoritative.
func (is *IdentityService) GetOrCreateResourceServer(ctx context.Context, poolID, identifier, name string, scopes []ScopeSpec) (string, error) {
	listOutput, err := is.cognito.ListResourceServers(ctx, &cognito.ListResourceServersInput{
		UserPoolId: aws.String(poolID),
		MaxResults: aws.Int32(listPageSize),
	})
	if err == nil {
		for _, server := range listOutput.ResourceServers {
			if aws.ToString(server.Identifier) == identifier {
				return identifier, nil
			}
		}
	}

	scopeTypes := make([]cognitotypes.ResourceServerScopeType, 0, len(scopes))
	for _, scope := range scopes {
		scopeTypes = append(scopeTypes, cognitotypes.ResourceServerScopeType{
			ScopeName:        aws.String(scope.Name),
			ScopeDescription: aws.String(scope.Description),
		})
	}

	_, err = is.cognito.CreateResourceServer(ctx, &cognito.CreateResourceServerInput{
		UserPoolId: aws.String(poolID),
		Identifier: aws.String(identifier),
		Name:       aws.String(name),
		Scopes:     scopeTypes,
	})
	if err != nil {
		return "", apierrors.NewUpstream("create resource server", err)
	}

	return identifier, nil
}

// GetOrCreateClient returns the client ID and secret of the confidential M2M
// client with the given name, creating it if absent. List responses omit
// secrets, so an existing client requires a describe call to recover its
// secret.
func (is *IdentityService) GetOrCreateClient(ctx context.Context, poolID, clientName, resourceServerID string) (string, string, error) {
	listOutput, err := is.cognito.ListUserPoolClients(ctx, &cognito.ListUserPoolClientsInput{
		UserPoolId: aws.String(poolID),
		MaxResults: aws.Int32(listPageSize),
	})
	if err != nil {
		return "", "", apierrors.NewUpstream("list user pool clients", err)
	}

	for _, client := range listOutput.UserPoolClients {
		if aws.ToString(client.ClientName) != clientName {
			continue
		}

		clientID := aws.ToString(client.ClientId)
		describeOutput, err := is.cognito.DescribeUserPoolClient(ctx, &cognito.DescribeUserPoolClientInput{
			UserPoolId: aws.String(poolID),
			ClientId:   aws.String(clientID),
		})
		if err != nil {
			return "", "", apierrors.NewUpstream("describe user pool client", err)
		}
		return clientID, aws.ToString(describeOutput.UserPoolClient.ClientSecret), nil
	}

	createOutput, err := is.cognito.CreateUserPoolClient(ctx, &cognito.CreateUserPoolClientInput{
		UserPoolId:     aws.String(poolID),
		ClientName:     aws.String(clientName),
		GenerateSecret: true,
		AllowedOAuthFlows: []cognitotypes.OAuthFlowType{
			cognitotypes.OAuthFlowTypeClientCredentials,
		},
		AllowedOAuthScopes: []string{
			resourceServerID + "/read",
			resourceServerID + "/write",
		},
		AllowedOAuthFlowsUserPoolClient: true,
	})
	if err != nil {
		return "", "", apierrors.NewUpstream("create user pool client", err)
	}

	return aws.ToString(createOutput.UserPoolClient.ClientId),
		aws.ToString(createOutput.UserPoolClient.ClientSecret), nil
}

// DiscoveryURL returns the OIDC discovery document URL for a user pool
func (is *IdentityService) DiscoveryURL(poolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/openid-configuration", is.region, poolID)
}

// SetupAuth creates or retrieves the full identity infrastructure: user
// pool, resource server with read/write scopes, and M2M client. This is a
// one-time operation; repeated calls resolve to the existing resources.
func (is *IdentityService) SetupAuth(ctx context.Context, poolName, resourceServerID, resourceServerName, clientName string) (*models.AuthSetup, error) {
	poolID, err := is.GetOrCreatePool(ctx, poolName)
	if err != nil {
		return nil, err
	}

	scopes := []ScopeSpec{
		{Name: "read", Description: "Read access"},
		{Name: "write", Description: "Write access"},
	}
	if _, err := is.GetOrCreateResourceServer(ctx, poolID, resourceServerID, resourceServerName, scopes); err != nil {
		return nil, err
	}

	clientID, clientSecret, err := is.GetOrCreateClient(ctx, poolID, clientName, resourceServerID)
	if err != nil {
		return nil, err
	}

	return &models.AuthSetup{
		UserPoolID:       poolID,
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		ResourceServerID: resourceServerID,
		DiscoveryURL:     is.DiscoveryURL(poolID),
	}, nil
}

// IssueToken performs the client_credentials grant against the pool's token
// endpoint, resolved through the OIDC discovery document.
func (is *IdentityService) IssueToken(ctx context.Context, poolID, clientID, clientSecret, scope string) (*models.TokenResponse, error) {
	discoveryURL := is.DiscoveryURL(poolID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, &apierrors.AuthError{Message: "building discovery request failed", Err: err}
	}

	resp, err := is.http.Do(req)
	if err != nil {
		return nil, &apierrors.AuthError{Message: "fetching OIDC discovery document failed", Err: err}
	}
	defer resp.Body.Close()

	var discovery struct {
		TokenEndpoint string `json:"token_endpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil || discovery.TokenEndpoint == "" {
		return nil, &apierrors.AuthError{Message: "malformed OIDC discovery document", Err: err}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if scope != "" {
		form.Set("scope", scope)
	}

	tokenReq, err := http.NewRequestWithContext(ctx, http.MethodPost, discovery.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &apierrors.AuthError{Message: "building token request failed", Err: err}
	}
	tokenReq.SetBasicAuth(clientID, clientSecret)
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	tokenResp, err := is.http.Do(tokenReq)
	if err != nil {
		return nil, &apierrors.AuthError{Message: "token endpoint request failed", Err: err}
	}
	defer tokenResp.Body.Close()

	if tokenResp.StatusCode < 200 || tokenResp.StatusCode > 299 {
		return nil, &apierrors.AuthError{
			Message: fmt.Sprintf("token endpoint returned status %d", tokenResp.StatusCode),
		}
	}

	var token models.TokenResponse
	if err := json.NewDecoder(tokenResp.Body).Decode(&token); err != nil {
		return nil, &apierrors.AuthError{Message: "malformed token response", Err: err}
	}

	return &token, nil
}
