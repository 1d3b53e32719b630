// Package storage hands out presigned S3 upload URLs for product images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chengtian/temple-backend/config"
	"github.com/google/uuid"
)

const (
	ProductFolder  = "products"
	presignExpires = 15 * time.Minute
)

var (
	ErrNotConfigured         = errors.New("s3 bucket not configured")
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrFilenameRequired      = errors.New("filename required")
)

// allowedImageTypes maps accepted content types to the extension used when
// the filename carries none.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Presigner is what handlers need from the image store.
type Presigner interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error)
}

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
	region  string
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	var awsCfg aws.Config
	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		awsCfg = loaded
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
	}, nil
}

// PresignUpload returns a PUT URL valid for 15 minutes and the public URL the
// object will have once uploaded.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	defaultExt, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrContentTypeNotAllowed
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = defaultExt
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
