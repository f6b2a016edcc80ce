package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockS3Client is a mock implementation of the S3 client for testing
type MockS3Client struct {
	createBucketFunc func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	putObjectFunc    func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)

	putKeys []string
}

func (m *MockS3Client) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if m.createBucketFunc != nil {
		return m.createBucketFunc(ctx, params, optFns...)
	}
	return &s3.CreateBucketOutput{}, nil
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.putKeys = append(m.putKeys, aws.ToString(params.Key))
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// TestEnsureBucket_DerivedName tests per-account bucket name derivation
func TestEnsureBucket_DerivedName(t *testing.T) {
	var gotBucket string
	var gotConstraint bool

	mock := &MockS3Client{
		createBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
			gotBucket = aws.ToString(params.Bucket)
			gotConstraint = params.CreateBucketConfiguration != nil
			return &s3.CreateBucketOutput{}, nil
		},
	}

	store := NewSpecStore(mock, "eu-west-1", "123456789012", "")
	bucket, err := store.EnsureBucket(context.Background())
	if err != nil {
		t.Fatalf("EnsureBucket failed: %v", err)
	}

	want := "mcp-gateway-openapi-specs-123456789012-eu-west-1"
	if bucket != want {
		t.Errorf("Expected bucket %s, got %s", want, bucket)
	}
	if gotBucket != want {
		t.Errorf("CreateBucket called with %s, want %s", gotBucket, want)
	}
	if !gotConstraint {
		t.Error("Expected a location constraint outside us-east-1")
	}
}

// TestEnsureBucket_USEast1 tests that us-east-1 omits the location constraint
func TestEnsureBucket_USEast1(t *testing.T) {
	mock := &MockS3Client{
		createBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
			if params.CreateBucketConfiguration != nil {
				t.Error("us-east-1 must not set a location constraint")
			}
			return &s3.CreateBucketOutput{}, nil
		},
	}

	store := NewSpecStore(mock, "us-east-1", "123456789012", "")
	if _, err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket failed: %v", err)
	}
}

// TestEnsureBucket_AlreadyOwned tests that an existing bucket counts as success
func TestEnsureBucket_AlreadyOwned(t *testing.T) {
	mock := &MockS3Client{
		createBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
			return nil, &s3types.BucketAlreadyOwnedByYou{}
		},
	}

	store := NewSpecStore(mock, "us-west-2", "123456789012", "custom-bucket")
	bucket, err := store.EnsureBucket(context.Background())
	if err != nil {
		t.Fatalf("Expected already-owned bucket to succeed, got %v", err)
	}
	if bucket != "custom-bucket" {
		t.Errorf("Expected explicit bucket name to win, got %s", bucket)
	}
}

// TestEnsureBucket_Failure tests that other failures surface as errors
func TestEnsureBucket_Failure(t *testing.T) {
	mock := &MockS3Client{
		createBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	store := NewSpecStore(mock, "us-west-2", "123456789012", "")
	if _, err := store.EnsureBucket(context.Background()); err == nil {
		t.Fatal("Expected error from denied bucket creation, got nil")
	}
}

// TestPut_URIAndKeyLayout tests the returned URI and the hierarchical key
func TestPut_URIAndKeyLayout(t *testing.T) {
	mock := &MockS3Client{}
	store := NewSpecStore(mock, "us-east-1", "123456789012", "spec-bucket")

	spec := map[string]interface{}{"openapi": "3.0.3"}
	uri, err := store.Put(context.Background(), spec, "weather", "GW123")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !strings.HasPrefix(uri, "s3://spec-bucket/gateways/GW123/tools/weather/") {
		t.Errorf("Unexpected URI layout: %s", uri)
	}
	if !strings.HasSuffix(uri, ".json") {
		t.Errorf("Expected .json object key, got %s", uri)
	}
}

// TestPut_KeysNeverCollide tests that sequential uploads of the same tool
// produce distinct object keys
func TestPut_KeysNeverCollide(t *testing.T) {
	mock := &MockS3Client{}
	store := NewSpecStore(mock, "us-east-1", "123456789012", "spec-bucket")

	spec := map[string]interface{}{"openapi": "3.0.3"}
	for i := 0; i < 20; i++ {
		if _, err := store.Put(context.Background(), spec, "weather", "GW123"); err != nil {
			t.Fatalf("Put %d failed: %v", i, err)
		}
	}

	seen := map[string]bool{}
	for _, key := range mock.putKeys {
		if seen[key] {
			t.Fatalf("Object key reused: %s", key)
		}
		seen[key] = true
	}
	if len(seen) != 20 {
		t.Fatalf("Expected 20 distinct keys, got %d", len(seen))
	}
}

// TestPut_ContentType tests that descriptors upload as application/json
func TestPut_ContentType(t *testing.T) {
	mock := &MockS3Client{
		putObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			if ct := aws.ToString(params.ContentType); ct != "application/json" {
				return nil, fmt.Errorf("unexpected content type %s", ct)
			}
			return &s3.PutObjectOutput{}, nil
		},
	}

	store := NewSpecStore(mock, "us-east-1", "123456789012", "spec-bucket")
	if _, err := store.Put(context.Background(), map[string]interface{}{"openapi": "3.0.3"}, "t", "g"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}
