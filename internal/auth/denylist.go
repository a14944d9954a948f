// AngelaMos | 2026
// denylist.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/storefront/internal/core"
)

// Denylist records token ids revoked by logout until they would have
// expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisDenylist struct {
	client *redis.Client
	keys   core.Keyspace
}

func NewRedisDenylist(rdb *core.Redis) Denylist {
	return &redisDenylist{client: rdb.Client, keys: rdb.Keys}
}

func (d *redisDenylist) key(tokenID string) string {
	return d.keys.Key("denylist", "token", tokenID)
}

func (d *redisDenylist) Revoke(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist token: %w", err)
	}

	return nil
}

func (d *redisDenylist) IsRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	exists, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check denylist: %w", err)
	}

	return exists > 0, nil
}
