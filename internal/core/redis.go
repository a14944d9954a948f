// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/storefront/internal/config"
)

const redisPingTimeout = 5 * time.Second

// Keyspace prefixes every key the storefront writes so that several
// deployments can share one Redis. The zero value leaves keys unprefixed.
type Keyspace string

// Key joins parts with ':' under the keyspace prefix.
func (k Keyspace) Key(parts ...string) string {
	key := strings.Join(parts, ":")
	if k == "" {
		return key
	}
	return string(k) + ":" + key
}

// Redis backs the token denylist and the distributed rate limiter.
type Redis struct {
	Client *redis.Client
	Keys   Keyspace
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	r := &Redis{
		Client: redis.NewClient(opts),
		Keys:   Keyspace(strings.Trim(cfg.KeyPrefix, ":")),
	}

	if err := r.Ping(ctx); err != nil {
		_ = r.Client.Close() //nolint:errcheck // connect already failed
		return nil, err
	}

	return r, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping satisfies health.Checker.
func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
	KeyPrefix  string `json:"key_prefix,omitempty"`
}

func (r *Redis) PoolStats() *RedisPoolStats {
	return newRedisPoolStats(r.Client.PoolStats(), r.Keys)
}

func newRedisPoolStats(s *redis.PoolStats, keys Keyspace) *RedisPoolStats {
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
		KeyPrefix:  string(keys),
	}
}
