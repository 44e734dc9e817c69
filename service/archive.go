package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/pkg/logger"
)

const (
	contractsPrefix = "contracts"
	logosPrefix     = "logos"
)

// ArchiveService stores rendered PDFs and uploaded logos in MinIO
type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewArchiveService(cfg *config.MinioConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist and makes the logos
// prefix publicly readable so logo URLs can be fetched at render time.
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info(ctx, "bucket created", "bucket", s.bucket)
	}

	if err := s.client.SetBucketPolicy(ctx, s.bucket, logoReadPolicy(s.bucket)); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// PutPDF archives a rendered contract and returns its object name
func (s *ArchiveService) PutPDF(ctx context.Context, ownerID, contractID string, lang locale.Lang, pdf []byte) (string, error) {
	objectName := pdfObjectName(ownerID, contractID, lang)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload pdf: %w", err)
	}
	return objectName, nil
}

// PresignedURL generates a presigned URL for the object with expiration
func (s *ArchiveService) PresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// PutLogo stores an uploaded logo and returns its public URL
func (s *ArchiveService) PutLogo(ctx context.Context, ownerID string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := logoObjectName(ownerID, uuid.New().String(), contentType)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	return s.GetPublicURL(objectName), nil
}

// DeleteContractArtifacts removes every archived PDF of a contract
func (s *ArchiveService) DeleteContractArtifacts(ctx context.Context, ownerID, contractID string) error {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    contractPrefix(ownerID, contractID),
		Recursive: true,
	})

	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("failed to list artifacts: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete %s: %w", obj.Key, err)
		}
	}
	return nil
}

// GetPublicURL returns a public URL for the object (if bucket policy allows)
func (s *ArchiveService) GetPublicURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}

func contractPrefix(ownerID, contractID string) string {
	return fmt.Sprintf("%s/%s/%s/", contractsPrefix, ownerID, contractID)
}

func pdfObjectName(ownerID, contractID string, lang locale.Lang) string {
	return contractPrefix(ownerID, contractID) + string(lang) + ".pdf"
}

func logoObjectName(ownerID, id, contentType string) string {
	return fmt.Sprintf("%s/%s/%s%s", logosPrefix, ownerID, id, logoExtension(contentType))
}

func logoExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	}
	return ""
}

func logoReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s/*"]}]}`, bucket, logosPrefix)
}
