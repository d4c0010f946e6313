package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
	"github.com/liskl/lixshare/internal/util"
)

// MinIO implements Storage with one JSON object per document under
// documents/<id>.json. S3 has no create-if-absent put here, so an insert
// racing another insert on the same ID can overwrite it; the gateway's
// existence check keeps that window narrow.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the client and ensures the bucket exists.
func NewMinIO(ctx context.Context, cfg *config.Config) (*MinIO, error) {
	if cfg.Model.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Model.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Model.AccessKey, cfg.Model.SecretKey, ""),
		Secure: cfg.Model.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	s := &MinIO{client: mc, bucket: cfg.Model.Bucket}

	ensureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ensureCtx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ensureCtx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func objectKey(id string) (string, error) {
	if !util.ValidateID(id) {
		return "", model.ErrInvalidDocumentID
	}
	return "documents/" + id + ".json", nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// InsertDocument uploads the document, refusing IDs that already have an object.
func (s *MinIO) InsertDocument(ctx context.Context, doc *model.Document) error {
	key, err := objectKey(doc.ID)
	if err != nil {
		return err
	}
	exists, err := s.DocumentExists(ctx, doc.ID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDocumentExists
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("uploading document: %w", err)
	}
	return nil
}

// FindDocument downloads and decodes a document.
func (s *MinIO) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	key, err := objectKey(id)
	if err != nil {
		return nil, model.ErrDocumentNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("downloading document: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("deserializing document: %w", err)
	}
	doc.ID = id
	return &doc, nil
}

// DocumentExists stats the object.
func (s *MinIO) DocumentExists(ctx context.Context, id string) (bool, error) {
	key, err := objectKey(id)
	if err != nil {
		return false, err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking document: %w", err)
	}
	return true, nil
}

// DeleteDocuments removes the object. One key holds one document.
func (s *MinIO) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	exists, err := s.DocumentExists(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrInvalidDocumentID) {
			return 0, nil
		}
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	key, _ := objectKey(id)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}
	return 1, nil
}

// Ping checks that the bucket is reachable.
func (s *MinIO) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio ping: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket %q missing", s.bucket)
	}
	return nil
}

// Close is a no-op; the minio client holds no long-lived connections to release.
func (s *MinIO) Close() error {
	return nil
}
