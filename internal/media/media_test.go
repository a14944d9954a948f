// AngelaMos | 2026
// media_test.go

package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/config"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(
	_ context.Context,
	in *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "products/p1/a.png"},
		{"shop", "shop/products/p1/a.png"},
		{"/shop/", "shop/products/p1/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, objectKey(tt.prefix, "products/p1/a.png"))
		})
	}
}

func TestS3BaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MediaConfig
		want string
	}{
		{
			name: "aws",
			cfg:  config.MediaConfig{Bucket: "shop", S3Region: "eu-west-1"},
			want: "https://shop.s3.eu-west-1.amazonaws.com",
		},
		{
			name: "minio",
			cfg:  config.MediaConfig{Bucket: "shop", S3Endpoint: "http://localhost:9000/"},
			want: "http://localhost:9000/shop",
		},
		{
			name: "cdn",
			cfg:  config.MediaConfig{Bucket: "shop", PublicBaseURL: "https://cdn.example.com"},
			want: "https://cdn.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3BaseURL(tt.cfg))
		})
	}
}

func TestS3Store_Upload(t *testing.T) {
	api := &fakePutObject{}
	store := &S3Store{
		client:  api,
		bucket:  "shop",
		prefix:  "media",
		baseURL: "https://cdn.example.com",
	}

	url, err := store.Upload(context.Background(), "products/p1/x.png", "image/png",
		strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/media/products/p1/x.png", url)
	assert.Equal(t, "shop", aws.ToString(api.input.Bucket))
	assert.Equal(t, "media/products/p1/x.png", aws.ToString(api.input.Key))
	assert.Equal(t, "image/png", aws.ToString(api.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(api.input.ContentLength))
	assert.Equal(t, "png-bytes", api.body)

	api.err = errors.New("access denied")
	_, err = store.Upload(context.Background(), "k", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3StoreConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(
		context.Context,
		...func(*awsconfig.LoadOptions) error,
	) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3Store(context.Background(), config.MediaConfig{Driver: DriverS3, Bucket: "shop"})
	assert.ErrorContains(t, err, "load aws config")
}

type bufferWriter struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (b *bufferWriter) Close() error {
	b.closed = true
	return b.closeErr
}

func TestGCSStore_Upload(t *testing.T) {
	w := &bufferWriter{}
	var gotBucket, gotObject, gotType string

	store := &GCSStore{
		bucket:  "shop",
		baseURL: "https://storage.googleapis.com/shop",
		newWriter: func(_ context.Context, bucket, object, contentType string) io.WriteCloser {
			gotBucket, gotObject, gotType = bucket, object, contentType
			return w
		},
	}

	url, err := store.Upload(context.Background(), "products/p1/x.jpg", "image/jpeg",
		strings.NewReader("jpeg"), 4)
	require.NoError(t, err)

	assert.Equal(t, "https://storage.googleapis.com/shop/products/p1/x.jpg", url)
	assert.Equal(t, "shop", gotBucket)
	assert.Equal(t, "products/p1/x.jpg", gotObject)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, "jpeg", w.String())
	assert.True(t, w.closed)

	w.closeErr = errors.New("precondition failed")
	_, err = store.Upload(context.Background(), "k", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "finalize gcs object")
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), config.MediaConfig{Driver: DriverNone})
	require.NoError(t, err)
	assert.Nil(t, store)

	_, err = New(context.Background(), config.MediaConfig{Driver: "ftp"})
	assert.Error(t, err)
}
