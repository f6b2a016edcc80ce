package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
	"github.com/imyashkale/gatewayserver/internal/logger"
)

// S3API is the subset of the S3 client used by the spec store
type S3API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SpecStore persists OpenAPI descriptor documents to S3. Uploads are
// append-only: every Put writes a fresh object key, so prior descriptor
// versions for a tool are never overwritten.
type SpecStore struct {
	s3        S3API
	region    string
	accountID string
	bucket    string // optional explicit bucket; derived per-account when empty
}

// NewSpecStore creates a new spec store. bucket may be empty, in which case
// a per-account bucket name is derived from accountID and region.
func NewSpecStore(s3Client S3API, region, accountID, bucket string) *SpecStore {
	return &SpecStore{
		s3:        s3Client,
		region:    region,
		accountID: accountID,
		bucket:    bucket,
	}
}

// EnsureBucket makes sure the descriptor bucket exists and returns its name.
// "Already exists" and "already owned by you" both count as success.
func (ss *SpecStore) EnsureBucket(ctx context.Context) (string, error) {
	bucketName := ss.bucket
	if bucketName == "" {
		bucketName = fmt.Sprintf("mcp-gateway-openapi-specs-%s-%s", ss.accountID, ss.region)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}
	// us-east-1 rejects an explicit location constraint
	if ss.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(ss.region),
		}
	}

	_, err := ss.s3.CreateBucket(ctx, input)
	if err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		var exists *s3types.BucketAlreadyExists
		if !errors.As(err, &owned) && !errors.As(err, &exists) {
			return "", apierrors.NewUpstream("create spec bucket", err)
		}
	}

	return bucketName, nil
}

// Put serializes a descriptor to JSON and uploads it under a hierarchical,
// versioned key. Returns the s3:// URI of the uploaded object.
func (ss *SpecStore) Put(ctx context.Context, spec map[string]interface{}, toolName, gatewayID string) (string, error) {
	bucketName, err := ss.EnsureBucket(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(spec)
	if err != nil {
		return "", apierrors.NewValidation("OpenAPI spec is not serializable: %v", err)
	}

	key := objectKey(gatewayID, toolName)

	logger.WithFields(map[string]interface{}{
		"bucket": bucketName,
		"key":    key,
	}).Info("Uploading OpenAPI spec to S3")

	_, err = ss.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", apierrors.NewUpstream("upload OpenAPI spec", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucketName, key), nil
}

// objectKey builds gateways/{gid}/tools/{tool}/{unix}-{random}.json. The
// random suffix keeps keys unique even when two uploads share a timestamp.
func objectKey(gatewayID, toolName string) string {
	suffix := uuid.New()
	return fmt.Sprintf("gateways/%s/tools/%s/%d-%x.json", gatewayID, toolName, time.Now().Unix(), suffix[:])
}
