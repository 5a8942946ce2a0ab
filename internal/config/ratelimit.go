package config

import "time"

// RateLimitConfig configures the Redis token bucket in front of the public
// auth endpoints.  Each key starts with Capacity tokens and regains
// RefillTokens every RefillInterval.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

func loadRateLimit(e env) RateLimitConfig {
    rl := RateLimitConfig{
        Enabled:        e.bool("RATE_LIMIT_ENABLED", true),
        Capacity:       e.int("RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   e.int("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: e.dur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
        TTL:            e.dur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    e.str("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         e.str("RATE_LIMIT_PREFIX", "rl"),
        Debug:          e.bool("RATE_LIMIT_DEBUG", false),
    }
    if rl.Capacity < 1 {
        rl.Capacity = 1
    }
    if rl.RefillTokens < 1 {
        rl.RefillTokens = 1
    }
    if rl.RefillInterval <= 0 {
        rl.RefillInterval = time.Second
    }
    if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
        rl.TTL = minTTL
    }
    return rl
}
