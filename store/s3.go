package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// S3Store implements a state store backend using Amazon S3 or compatible
// services. Each state key maps to one object named by the hex encoding of
// the key under the configured prefix.
type S3Store struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Store creates a new S3 state store. If accessKey and secretKey are
// empty the default AWS credential chain is used.
func NewS3Store(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Store, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}

	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		// Custom endpoints (MinIO and friends) usually need path-style addressing.
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      prefix,
		log:         log,
		locationURI: uri,
	}, nil
}

// Get retrieves the value for a key from S3.
// Returns ErrKeyNotFound if the object doesn't exist.
func (s *S3Store) Get(ctx context.Context, key interfaces.StateKey) ([]byte, error) {
	objectKey := s.objectKey(key)

	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, interfaces.ErrKeyNotFound
		}
		s.log.Error("Failed to get object from S3",
			slog.String("key", objectKey),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// Set writes the value for a key to S3.
func (s *S3Store) Set(ctx context.Context, key interfaces.StateKey, value []byte) error {
	objectKey := s.objectKey(key)

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		s.log.Error("Failed to put object to S3",
			slog.String("key", objectKey),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	s.log.Debug("Stored state entry in S3",
		slog.String("key", objectKey),
		slog.Int("size", len(value)))

	return nil
}

// Delete removes a key from S3. S3 delete is idempotent, matching the
// store contract.
func (s *S3Store) Delete(ctx context.Context, key interfaces.StateKey) error {
	objectKey := s.objectKey(key)

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		s.log.Error("Failed to delete object from S3",
			slog.String("key", objectKey),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	return nil
}

// Available checks if the bucket is accessible.
func (s *S3Store) Available(ctx context.Context) bool {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		s.log.Debug("S3 store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this backend.
func (s *S3Store) Name() string {
	return fmt.Sprintf("s3-%s", s.bucketName)
}

// LocationURI returns the URI that identifies this backend.
func (s *S3Store) LocationURI() string {
	return s.locationURI
}

// objectKey builds the S3 object key for a state key.
func (s *S3Store) objectKey(key interfaces.StateKey) string {
	return path.Join(s.prefix, fmt.Sprintf("%x", key))
}
