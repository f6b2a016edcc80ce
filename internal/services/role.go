package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
)

// gatewayTrustPolicy lets the gateway service principal assume the role
const gatewayTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "bedrock-agentcore.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

// gatewayPermissionsPolicy grants the gateway control-plane, spec-storage,
// identity, and secret-read permissions. Broad on purpose; narrow it per
// deployment if least privilege is required.
const gatewayPermissionsPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": [
        "bedrock-agentcore-control:*",
        "s3:GetObject",
        "s3:PutObject",
        "s3:ListBucket",
        "iam:PassRole",
        "cognito-idp:*",
        "sts:GetCallerIdentity"
      ],
      "Resource": "*"
    },
    {
      "Effect": "Allow",
      "Action": [
        "bedrock-agentcore:GetWorkloadAccessToken",
        "bedrock-agentcore:InvokeCredentialProvider",
        "bedrock-agentcore:GetResourceApiKey"
      ],
      "Resource": "*"
    },
    {
      "Effect": "Allow",
      "Action": [
        "secretsmanager:GetSecretValue"
      ],
      "Resource": "*"
    }
  ]
}`

// IAMAPI is the subset of the IAM client used by the role provisioner
type IAMAPI interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
}

// RoleService provisions the gateway execution role
type RoleService struct {
	iam IAMAPI
}

// NewRoleService creates a new role service
func NewRoleService(iamClient IAMAPI) *RoleService {
	return &RoleService{iam: iamClient}
}

// GetOrCreateRole creates the gateway execution role, falling back to a
// lookup when the name already exists, and (re)attaches the inline
// permissions policy. The policy overwrite is unconditional and idempotent;
// a failure to attach it is logged and swallowed since the role may already
// carry sufficient permissions from a prior run.
func (rs *RoleService) GetOrCreateRole(ctx context.Context, roleName string) (string, error) {
	var roleARN string

	createOutput, err := rs.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(gatewayTrustPolicy),
		Description:              aws.String("Execution role for MCP gateway"),
	})
	if err != nil {
		var exists *iamtypes.EntityAlreadyExistsException
		if !errors.As(err, &exists) {
			return "", apierrors.NewUpstream("create gateway role", err)
		}

		getOutput, err := rs.iam.GetRole(ctx, &iam.GetRoleInput{
			RoleName: aws.String(roleName),
		})
		if err != nil {
			return "", apierrors.NewUpstream("get gateway role", err)
		}
		roleARN = aws.ToString(getOutput.Role.Arn)
	} else {
		roleARN = aws.ToString(createOutput.Role.Arn)
		logger.WithField("role_arn", roleARN).Info("Created gateway execution role")
	}

	_, err = rs.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String(fmt.Sprintf("%s-inline-policy", roleName)),
		PolicyDocument: aws.String(gatewayPermissionsPolicy),
	})
	if err != nil {
		logger.Warnf("Attaching inline policy to role %s failed: %v", roleName, err)
	}

	return roleARN, nil
}
