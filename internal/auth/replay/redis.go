package replay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "totp:used:"

	// A code stays acceptable for three 30s steps, so a claim only has to
	// outlive that.
	defaultClaimTTL = 2 * time.Minute
)

type RedisConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// RedisGuard claims counters with SET NX so every instance sharing the Redis
// sees the same claims.
type RedisGuard struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Guard = (*RedisGuard)(nil)

// NewRedisGuard creates a guard. Zero-value fields in cfg fall back to
// defaults.
func NewRedisGuard(client redis.UniversalClient, cfg RedisConfig) *RedisGuard {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &RedisGuard{redis: client, prefix: prefix, ttl: ttl}
}

func (g *RedisGuard) key(userID string, counter int64) string {
	return g.prefix + userID + ":" + strconv.FormatInt(counter, 10)
}

func (g *RedisGuard) Claim(ctx context.Context, userID string, counter int64) (bool, error) {
	ok, err := g.redis.SetNX(ctx, g.key(userID, counter), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

// Ping reports whether Redis is reachable.
func (g *RedisGuard) Ping(ctx context.Context) error {
	if err := g.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
