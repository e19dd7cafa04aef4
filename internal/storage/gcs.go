// Package storage archives generated artifacts to Google Cloud Storage
// for record-keeping and serves the production billing config blob.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"google.golang.org/api/option"
	storageapi "google.golang.org/api/storage/v1"

	"github.com/ianferguson/contracting-hours/internal/logger"
)

type Uploader interface {
	// Upload copies a local file to the remote object key.
	Upload(ctx context.Context, localPath, objectKey string) error
}

// ObjectKey builds the archive key convention
// <normalized_client>/<YYYY-MM-DD>/<filename>.
func ObjectKey(client string, ref time.Time, filename string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(client)), " ", "_")
	return path.Join(normalized, ref.Format("2006-01-02"), filename)
}

// GCS talks to one bucket using application default credentials.
type GCS struct {
	service *storageapi.Service
	bucket  string
}

func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	service, err := storageapi.NewService(ctx, option.WithScopes(storageapi.DevstorageReadWriteScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return &GCS{
		service: service,
		bucket:  bucket,
	}, nil
}

func (g *GCS) Upload(ctx context.Context, localPath, objectKey string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer file.Close()

	object := &storageapi.Object{Name: objectKey}
	if _, err := g.service.Objects.Insert(g.bucket, object).Media(file).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to upload %s to gs://%s/%s: %w", localPath, g.bucket, objectKey, err)
	}

	logger.Debug("Uploaded %s to gs://%s/%s", localPath, g.bucket, objectKey)
	return nil
}

// Download fetches an object's contents, e.g. the billing config blob.
func (g *GCS) Download(ctx context.Context, objectKey string) ([]byte, error) {
	resp, err := g.service.Objects.Get(g.bucket, objectKey).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download gs://%s/%s: %w", g.bucket, objectKey, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, objectKey, err)
	}
	return data, nil
}
