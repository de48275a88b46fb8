// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive mirrors downloaded papers into an S3-compatible bucket.
package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/pkg/types"
)

const keyPrefix = "papers/"

// ErrArchive wraps failures to store a paper in the bucket.
var ErrArchive = errors.New("archive failed")

// Store uploads local files to a single bucket. The bucket is created on
// first use when it does not exist.
type Store struct {
	client  *minio.Client
	bucket  string
	checked bool
}

// New builds a Store from cfg. It does not contact the server.
func New(cfg types.ArchiveConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("archive endpoint and bucket are required")
	}
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Store{client: cli, bucket: cfg.Bucket}, nil
}

// ObjectKey returns the object name used for a local file.
func ObjectKey(localPath string) string {
	return keyPrefix + filepath.Base(localPath)
}

// ContentType guesses the object content type from the file extension.
func ContentType(localPath string) string {
	if strings.EqualFold(filepath.Ext(localPath), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Archive uploads localPath and returns the object key.
func (s *Store) Archive(ctx context.Context, localPath string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	key := ObjectKey(localPath)
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("%w: uploading %s: %w", ErrArchive, key, err)
	}

	zerolog.Ctx(ctx).Info().Str("bucket", s.bucket).Str("key", key).Int64("size", info.Size).Msg("paper archived")
	return key, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	if s.checked {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
		}
	}
	s.checked = true
	return nil
}
