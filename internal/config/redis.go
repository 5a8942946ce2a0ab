package config

// Redis backs the login/signup rate limiter and the token denylist.  Both
// are optional: when Redis is not configured or unreachable the service
// starts without them.

import (
    "context"
    "crypto/tls"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection settings.  Addr is empty when
// Redis is not configured.
type RedisConfig struct {
    Addr     string
    Password string
    DB       int
    TLS      bool
}

// loadRedis reads REDIS_HOST and REDIS_PORT (which take precedence) or
// REDIS_ADDR, plus REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func loadRedis(e env) RedisConfig {
    addr := e.str("REDIS_ADDR", "")
    if host, port := e.str("REDIS_HOST", ""), e.str("REDIS_PORT", ""); host != "" && port != "" {
        addr = host + ":" + port
    }
    return RedisConfig{
        Addr:     addr,
        Password: e.str("REDIS_PASSWORD", ""),
        DB:       e.int("REDIS_DB", 0),
        TLS:      e.bool("REDIS_TLS", false),
    }
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// NewRedisClient connects to Redis and pings it with a short timeout.
func NewRedisClient(ctx context.Context, c RedisConfig) (*redis.Client, error) {
    opts := &redis.Options{
        Addr:     c.Addr,
        Password: c.Password,
        DB:       c.DB,
    }
    if c.TLS {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)
    pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(pingCtx).Err(); err != nil {
        _ = client.Close()
        return nil, fmt.Errorf("redis ping %s: %w", c.Addr, err)
    }
    return client, nil
}
