package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appConfig "github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/utils"
)

// ImageStorage abstracts where product photos live. The production
// implementation is S3; tests swap in a mock.
type ImageStorage interface {
	// UploadImage validates and stores a product photo, returning the storage key
	UploadImage(fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a time-limited URL for a stored photo
	GetImageURL(key string) (string, error)

	// DeleteImage removes a stored photo; deleting a missing key is not an error
	DeleteImage(key string) error
}

var imageStorageInstance ImageStorage

// GetImageStorage returns the configured image storage backend
func GetImageStorage() ImageStorage {
	return imageStorageInstance
}

// SetImageStorage sets the image storage backend (primarily for testing)
func SetImageStorage(storage ImageStorage) {
	imageStorageInstance = storage
}

// S3ImageStorage stores product photos in an S3 bucket under the
// product-images/ prefix.
type S3ImageStorage struct {
	client *s3.Client
	bucket string
}

// InitS3ImageStorage builds the S3-backed image storage from the
// application configuration and installs it as the active backend.
func InitS3ImageStorage() (ImageStorage, error) {
	cfg := appConfig.GetConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	imageStorageInstance = &S3ImageStorage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}
	return imageStorageInstance, nil
}

// UploadImage validates the file and uploads it to S3
func (s *S3ImageStorage) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.GetLogger().Warn("failed to close uploaded file", zap.Error(closeErr))
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Key format: product-images/{timestamp}_{filename}
	key := fmt.Sprintf("product-images/%d_%s", time.Now().Unix(), filepath.Base(fileHeader.Filename))

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentTypeForFilename(fileHeader.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// GetImageURL generates a presigned GET URL valid for one hour
func (s *S3ImageStorage) GetImageURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteImage deletes the object from S3
func (s *S3ImageStorage) DeleteImage(key string) error {
	if key == "" {
		return nil
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

func contentTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
