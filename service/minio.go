package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver keeps copies of finalized contracts and drawn signatures.
type Archiver interface {
	ArchiveContract(ctx context.Context, d model.ContractDraft) (string, error)
	ArchiveSignature(ctx context.Context, rec model.SignatureRecord) (string, error)
	GetPresignedURL(ctx context.Context, objectName string) (string, error)
}

// ArtifactStore archives contract artifacts in a MinIO/S3 bucket.
type ArtifactStore struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewArtifactStore(cfg *config.MinioConfig) (*ArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArtifactStore{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArtifactStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ContractObject is the object name of a finalized contract.
func ContractObject(d model.ContractDraft) string {
	return fmt.Sprintf("contracts/%s/%s/contract.json", d.ContractorID, d.ID)
}

// SignatureObject is the object name of a drawn signature image.
func SignatureObject(rec model.SignatureRecord) string {
	return fmt.Sprintf("signatures/%s/%s.img", rec.ContractID, rec.SignerRole)
}

// ArchiveContract stores the finalized draft as JSON.
func (s *ArtifactStore) ArchiveContract(ctx context.Context, d model.ContractDraft) (string, error) {
	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode contract: %w", err)
	}
	name := ContractObject(d)
	if err := s.upload(ctx, name, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return "", err
	}
	return name, nil
}

// ArchiveSignature stores the image of a drawn signature. Typed signatures
// have nothing to archive and return an empty name.
func (s *ArtifactStore) ArchiveSignature(ctx context.Context, rec model.SignatureRecord) (string, error) {
	if rec.SignatureType != model.SignatureDrawn {
		return "", nil
	}
	raw, err := ledger.DrawnBytes(rec.SignatureData)
	if err != nil {
		return "", err
	}
	name := SignatureObject(rec)
	if err := s.upload(ctx, name, bytes.NewReader(raw), int64(len(raw)), http.DetectContentType(raw)); err != nil {
		return "", err
	}
	return name, nil
}

func (s *ArtifactStore) upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// GetPresignedURL generates a presigned URL for the object with expiration
func (s *ArtifactStore) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// GetPublicURL returns a public URL for the object (if bucket policy allows)
func (s *ArtifactStore) GetPublicURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}
