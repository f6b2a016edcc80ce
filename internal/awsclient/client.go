package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	agentcore "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Client bundles the AWS service clients used by the control plane.
// Clients are constructed once at startup and injected into services,
// rather than rebuilt per call.
type Client struct {
	Config       aws.Config
	ControlPlane *agentcore.Client
	Cognito      *cognito.Client
	IAM          *iam.Client
	S3           *s3.Client
	STS          *sts.Client
	Region       string
	AccountID    string
}

// New creates a new Client for the given region. When accountID is empty it
// is resolved through STS GetCallerIdentity.
func New(ctx context.Context, region, accountID string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := &Client{
		Config:       cfg,
		ControlPlane: agentcore.NewFromConfig(cfg),
		Cognito:      cognito.NewFromConfig(cfg),
		IAM:          iam.NewFromConfig(cfg),
		S3:           s3.NewFromConfig(cfg),
		STS:          sts.NewFromConfig(cfg),
		Region:       cfg.Region,
		AccountID:    accountID,
	}

	if client.AccountID == "" {
		result, err := client.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return nil, fmt.Errorf("resolving account ID: %w", err)
		}
		client.AccountID = aws.ToString(result.Account)
	}

	return client, nil
}
