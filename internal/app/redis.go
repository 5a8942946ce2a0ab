package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/brainiacs/portal/internal/config"
)

// OpenRedis returns nil when Redis is not configured.  A configured but
// unreachable Redis is an error: logout revocations live there, and
// starting without them would accept revoked tokens again.
func OpenRedis(ctx context.Context, c config.RedisConfig) (*redis.Client, error) {
	if !c.Enabled() {
		return nil, nil
	}
	rdb, err := config.NewRedisClient(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("redis configured at %s but unreachable: %w", c.Addr, err)
	}
	return rdb, nil
}
