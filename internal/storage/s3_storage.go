package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/belugagoods/storefront-backend/config"
	"github.com/google/uuid"
)

// Upload folders and the content types each accepts.
var uploadFolders = map[string][]string{
	"products":  {"image/jpeg", "image/png", "image/gif", "image/webp"},
	"previews":  {"image/jpeg", "image/png", "image/webp"},
	"community": {"image/jpeg", "image/png", "image/gif", "image/webp"},
	"templates": {
		"image/png", "application/pdf", "image/svg+xml",
		"image/vnd.adobe.photoshop", "application/postscript", "application/octet-stream",
	},
}

var (
	ErrUnknownFolder      = errors.New("unknown upload folder")
	ErrContentTypeRefused = errors.New("content type is not allowed in this folder")
)

// PresignedUpload is a one-shot PUT target plus where the object will live.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// S3Storage hands out links to template files kept in a bucket.
type S3Storage struct {
	client        *s3.Client
	presign       *s3.PresignClient
	bucket        string
	baseURL       string
	presignExpiry time.Duration
}

func NewS3Storage(cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

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
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{
				Region: cfg.Region,
			}
		}
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		client:        client,
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		presignExpiry: expiry,
	}
}

// PresignDownload returns a time-limited GET link that makes the browser
// save the object under its base name.
func (s *S3Storage) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, nil
}

// PresignUpload reserves a fresh key under folder and signs a PUT for it.
// The original file name only contributes its extension.
func (s *S3Storage) PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedUpload, error) {
	allowed, ok := uploadFolders[folder]
	if !ok {
		return nil, ErrUnknownFolder
	}
	if err := ValidateContentType(contentType, allowed); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.PublicURL(key),
		Key:       key,
	}, nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeRefused, contentType)
}

// PublicURL is the unsigned address of key, through the CDN when one is configured.
func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
