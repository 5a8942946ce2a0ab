package middleware

import (
    "context"
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/config"
)

// tokenBucketScript refills and takes one token atomically.  It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// bucketResult is the decoded script reply.
type bucketResult struct {
    Allowed   bool
    Remaining int64
    RetryMs   int64
}

// RateLimit returns a Redis token bucket middleware.  It is a pass-through
// when rate limiting is disabled or rdb is nil.  Redis failures let the
// request through; signup and login must not depend on Redis being up.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *logrus.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            res, err := takeToken(c.Request().Context(), rdb, cfg, key, time.Now())
            if err != nil {
                if log != nil {
                    log.WithError(err).WithField("key", key).Warn("rate limit check failed")
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }

            if !res.Allowed {
                secs := int(math.Ceil(float64(res.RetryMs) / 1000.0))
                if secs < 0 {
                    secs = 0
                }
                h.Set("Retry-After", strconv.Itoa(secs))
                if log != nil && cfg.Debug {
                    log.WithFields(logrus.Fields{"key": key, "retry_ms": res.RetryMs}).Debug("rate limited")
                }
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too many requests",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func takeToken(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (bucketResult, error) {
    vals, err := tokenBucketScript.Run(ctx, rdb, []string{key},
        now.UnixMilli(),
        cfg.Capacity,
        cfg.RefillTokens,
        cfg.RefillInterval.Milliseconds(),
        int64(cfg.TTL/time.Second),
    ).Slice()
    if err != nil {
        return bucketResult{}, err
    }
    if len(vals) != 3 {
        return bucketResult{}, fmt.Errorf("unexpected script result %#v", vals)
    }
    return bucketResult{
        Allowed:   asInt64(vals[0]) == 1,
        Remaining: asInt64(vals[1]),
        RetryMs:   asInt64(vals[2]),
    }, nil
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64:
        return t
    case int:
        return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// buildRateKey composes the bucket key from the configured strategy.
// Unknown strategies use ip, user and route together.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    uid := userID(c)
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
