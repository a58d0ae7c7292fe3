package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// KV backends selectable through KV_BACKEND.
const (
	KVBackendPostgres = "postgres"
	KVBackendRedis    = "redis"
	KVBackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	MigrationsPath string

	// Rate providers
	ExchangeRateAPIKey      string
	ExchangeRateAPIURL      string
	ExchangeRateFallbackURL string
	BulkConversionURL       string
	HTTPClientTimeout       time.Duration

	RateCacheTTL     time.Duration
	CurrencyCacheTTL time.Duration

	// Durable key/value storage for conversion queues and cache snapshots
	KVBackend     string
	RedisAddrs    []string
	RedisPassword string
	RedisCluster  bool

	ConnectivityProbeURL      string
	ConnectivityProbeInterval time.Duration

	RateLimit          string
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	PosthogEndpoint    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("EXCHANGE_RATE_API_KEY", "")
	viper.SetDefault("EXCHANGE_RATE_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGE_RATE_FALLBACK_URL", "https://api.exchangerate-api.com/v4/latest")
	viper.SetDefault("BULK_CONVERSION_URL", "")
	viper.SetDefault("HTTP_CLIENT_TIMEOUT", "10s")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("CURRENCY_CACHE_TTL", "24h")
	viper.SetDefault("KV_BACKEND", KVBackendPostgres)
	viper.SetDefault("REDIS_ADDRS", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CLUSTER", false)
	viper.SetDefault("CONNECTIVITY_PROBE_URL", "https://api.exchangerate-api.com")
	viper.SetDefault("CONNECTIVITY_PROBE_INTERVAL", "30s")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")

	// Actual environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGE_RATE_API_KEY")
	if cfg.ExchangeRateAPIKey == "" {
		log.Println("Warning: EXCHANGE_RATE_API_KEY not set. Only the keyless fallback provider and stored rates will be used.")
	}
	cfg.ExchangeRateAPIURL = viper.GetString("EXCHANGE_RATE_API_URL")
	cfg.ExchangeRateFallbackURL = viper.GetString("EXCHANGE_RATE_FALLBACK_URL")
	cfg.BulkConversionURL = viper.GetString("BULK_CONVERSION_URL")
	cfg.HTTPClientTimeout = durationOrDefault("HTTP_CLIENT_TIMEOUT", 10*time.Second)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", time.Hour)
	cfg.CurrencyCacheTTL = durationOrDefault("CURRENCY_CACHE_TTL", 24*time.Hour)

	cfg.KVBackend = strings.ToLower(viper.GetString("KV_BACKEND"))
	switch cfg.KVBackend {
	case KVBackendPostgres, KVBackendRedis, KVBackendMemory:
	default:
		log.Printf("Warning: Unknown KV_BACKEND ('%s'). Defaulting to %s.\n", cfg.KVBackend, KVBackendPostgres)
		cfg.KVBackend = KVBackendPostgres
	}
	cfg.RedisAddrs = splitList(viper.GetString("REDIS_ADDRS"))
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisCluster = viper.GetBool("REDIS_CLUSTER")

	cfg.ConnectivityProbeURL = viper.GetString("CONNECTIVITY_PROBE_URL")
	cfg.ConnectivityProbeInterval = durationOrDefault("CONNECTIVITY_PROBE_INTERVAL", 30*time.Second)

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
