package config // package config loads application configuration from environment variables

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
    DriverMongo  = "mongo"
    DriverMySQL  = "mysql"
    DriverMemory = "memory"
)

// MySQLConfig holds the connection settings of the MySQL credential store.
type MySQLConfig struct {
    User string
    Pass string // optional
    Host string
    Port string
    Name string
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string        // APP_ENV (development, production, ...)
    Port         string        // APP_PORT
    StoreDriver  string        // STORE_DRIVER: mongo | mysql | memory
    MongoURI     string        // MONGO_URI
    MongoDB      string        // MONGO_DB
    MySQL        MySQLConfig   // DB_USER, DB_PASS, DB_HOST, DB_PORT, DB_NAME
    JWTSecret    string        // JWT_SECRET, required
    TokenTTL     time.Duration // TOKEN_TTL
    BcryptCost   int           // BCRYPT_COST
    RabbitURL    string        // RABBITMQ_URL or AMQP_URL; empty disables events
    AuditLogPath string        // AUDIT_LOG_PATH
    CORSOrigins  []string      // CORS_ORIGINS, comma separated
    Redis        RedisConfig
    RateLimit    RateLimitConfig
}

// Load reads a .env file when present and then builds the Config from the
// process environment.
func Load() (Config, error) {
    _ = godotenv.Load() // a missing .env file is fine
    return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup.  Missing required variables are
// reported together in one error.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
    e := env{lookup: lookup}
    cfg := Config{
        Env:          e.str("APP_ENV", "development"),
        Port:         e.str("APP_PORT", "8080"),
        StoreDriver:  strings.ToLower(e.str("STORE_DRIVER", DriverMongo)),
        MongoURI:     e.str("MONGO_URI", ""),
        MongoDB:      e.str("MONGO_DB", "brainiacs"),
        JWTSecret:    e.str("JWT_SECRET", ""),
        TokenTTL:     e.dur("TOKEN_TTL", 24*time.Hour),
        BcryptCost:   e.int("BCRYPT_COST", 10),
        RabbitURL:    e.str("RABBITMQ_URL", e.str("AMQP_URL", "")),
        AuditLogPath: e.str("AUDIT_LOG_PATH", "logs/auth.log"),
        CORSOrigins:  splitList(e.str("CORS_ORIGINS", "http://localhost:5173")),
        MySQL: MySQLConfig{
            User: e.str("DB_USER", ""),
            Pass: e.str("DB_PASS", ""),
            Host: e.str("DB_HOST", ""),
            Port: e.str("DB_PORT", "3306"),
            Name: e.str("DB_NAME", ""),
        },
        Redis:     loadRedis(e),
        RateLimit: loadRateLimit(e),
    }

    var missing []string
    need := func(key, val string) {
        if val == "" {
            missing = append(missing, key)
        }
    }
    need("JWT_SECRET", cfg.JWTSecret)
    switch cfg.StoreDriver {
    case DriverMongo:
        need("MONGO_URI", cfg.MongoURI)
    case DriverMySQL:
        need("DB_USER", cfg.MySQL.User)
        need("DB_HOST", cfg.MySQL.Host)
        need("DB_NAME", cfg.MySQL.Name)
    case DriverMemory:
    default:
        return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
    }
    if len(missing) > 0 {
        return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }
    if cfg.TokenTTL <= 0 {
        return Config{}, errors.New("TOKEN_TTL must be positive")
    }
    return cfg, nil
}

// IsDevelopment reports whether the app runs in a development environment.
func (c Config) IsDevelopment() bool {
    return c.Env == "development" || c.Env == "dev"
}

// env reads typed values with defaults.  Unparseable values fall back to
// the default.
type env struct {
    lookup func(string) (string, bool)
}

func (e env) str(k, d string) string {
    if v, ok := e.lookup(k); ok && strings.TrimSpace(v) != "" {
        return strings.TrimSpace(v)
    }
    return d
}

func (e env) int(k string, d int) int {
    if n, err := strconv.Atoi(e.str(k, "")); err == nil {
        return n
    }
    return d
}

func (e env) bool(k string, d bool) bool {
    switch strings.ToLower(e.str(k, "")) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func (e env) dur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(e.str(k, "")); err == nil {
        return dur
    }
    return d
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
