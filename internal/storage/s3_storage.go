package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// S3Storage implements Store on top of an S3 bucket. References carry
// the public base URL (CloudFront or S3 direct) instead of /uploads.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// Use explicit credentials when provided, default chain otherwise.
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	client := s3.NewFromConfig(cfg)

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *S3Storage) Save(category string, upload Upload) (string, error) {
	if err := ValidateContentType(upload.ContentType); err != nil {
		return "", err
	}

	ext := filepath.Ext(upload.Filename)
	key := fmt.Sprintf("%s/%s%s", category, uuid.New().String(), ext)

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        upload.Content,
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	ref := fmt.Sprintf("%s/%s", s.baseURL, key)
	logger.Debug("Upload stored in S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
	})
	return ref, nil
}

// Delete removes the object behind ref. A missing object is not an
// error: S3 DeleteObject succeeds on absent keys.
func (s *S3Storage) Delete(ref string) error {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("asset reference %q is outside %s", ref, s.baseURL)
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
