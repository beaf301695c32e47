package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/certfolio/apiserver/config"
	"google.golang.org/api/option"
)

// GCSBackend stores uploads in a Google Cloud Storage bucket.
type GCSBackend struct {
	client *storage.Client
	bucket string
}

// NewGCSBackend constructs a GCS backend from config. The bucket must exist
// and be writable by the supplied credentials.
func NewGCSBackend(ctx context.Context, cfg config.GCSConfig) (*GCSBackend, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	backend := &GCSBackend{client: client, bucket: cfg.Bucket}
	if _, err := client.Bucket(cfg.Bucket).Attrs(ctx); err != nil {
		if !errors.Is(err, storage.ErrBucketNotExist) {
			_ = client.Close()
			return nil, err
		}
		if strings.TrimSpace(cfg.ProjectID) == "" {
			_ = client.Close()
			return nil, errors.New("gcs project id is required to create bucket")
		}
		if err := client.Bucket(cfg.Bucket).Create(ctx, cfg.ProjectID, nil); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return backend, nil
}

func (g *GCSBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	// Close commits the object; the write is not durable until it returns.
	return w.Close()
}

func (g *GCSBackend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
}

func (g *GCSBackend) Remove(ctx context.Context, key string) error {
	return g.client.Bucket(g.bucket).Object(key).Delete(ctx)
}
