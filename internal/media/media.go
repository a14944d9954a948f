// AngelaMos | 2026
// media.go

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/product"
)

const (
	DriverNone = "none"
	DriverGCS  = "gcs"
	DriverS3   = "s3"
)

// New builds the object store selected by cfg.Driver. It returns a nil
// store when uploads are disabled.
func New(ctx context.Context, cfg config.MediaConfig) (product.MediaStore, error) {
	switch cfg.Driver {
	case DriverNone, "":
		return nil, nil
	case DriverGCS:
		store, err := NewGCSStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverS3:
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

func objectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func publicURL(baseURL, object string) string {
	return strings.TrimRight(baseURL, "/") + "/" + object
}
