// AngelaMos | 2026
// gcs.go

package media

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/carterperez-dev/storefront/internal/config"
)

type objectWriterFunc func(ctx context.Context, bucket, object, contentType string) io.WriteCloser

type GCSStore struct {
	client    *storage.Client
	bucket    string
	prefix    string
	baseURL   string
	newWriter objectWriterFunc
}

// NewGCSStore uses the credentials file when configured and application
// default credentials otherwise.
func NewGCSStore(ctx context.Context, cfg config.MediaConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}

	s := &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: baseURL,
	}
	s.newWriter = s.clientWriter

	return s, nil
}

func (s *GCSStore) clientWriter(
	ctx context.Context,
	bucket, object, contentType string,
) io.WriteCloser {
	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0
	return w
}

func (s *GCSStore) Upload(
	ctx context.Context,
	key, contentType string,
	body io.Reader,
	_ int64,
) (string, error) {
	object := objectKey(s.prefix, key)

	w := s.newWriter(ctx, s.bucket, object, contentType)
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close() //nolint:errcheck // upload already failed
		return "", fmt.Errorf("write gcs object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gcs object %s: %w", object, err)
	}

	return publicURL(s.baseURL, object), nil
}

func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
