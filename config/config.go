package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Stripe  StripeConfig
	Support SupportConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	FrontendURL string
}

type DatabaseConfig struct {
	URL string
}

// RedisConfig is optional: an empty Addr disables the stats cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Algorithm  string
	Expiration time.Duration
}

type StripeConfig struct {
	SecretKey            string
	PublishableKey       string
	WebhookSecret        string
	ConnectWebhookSecret string
	ConnectCountry       string
}

type SupportConfig struct {
	MinimumAmount      int64
	PlatformFeePercent float64
	Currency           string
}

func LoadEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			CORSOrigins: parseOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		},
		DB: DatabaseConfig{
			URL: mustEnv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			StatsTTL: time.Duration(getEnvAsInt("STATS_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:     mustEnv("SECRET_KEY"),
			Algorithm:  getEnv("ALGORITHM", "HS256"),
			Expiration: time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		Stripe: StripeConfig{
			SecretKey:            getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey:       getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			WebhookSecret:        getEnv("STRIPE_WEBHOOK_SECRET", ""),
			ConnectWebhookSecret: getEnv("STRIPE_CONNECT_WEBHOOK_SECRET", ""),
			ConnectCountry:       getEnv("CONNECT_COUNTRY", "JP"),
		},
		Support: SupportConfig{
			MinimumAmount:      int64(getEnvAsInt("MINIMUM_SUPPORT_AMOUNT", 150)),
			PlatformFeePercent: getEnvAsFloat("PLATFORM_FEE_PERCENT", 10.0),
			Currency:           strings.ToLower(getEnv("SUPPORT_CURRENCY", "jpy")),
		},
	}
}

func (c *Config) Validate() error {
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported token algorithm %q", c.JWT.Algorithm)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("token expiration must be positive")
	}
	if c.Support.MinimumAmount < 0 {
		return fmt.Errorf("minimum support amount must not be negative")
	}
	if c.Support.PlatformFeePercent < 0 || c.Support.PlatformFeePercent > 100 {
		return fmt.Errorf("platform fee percent must be within [0, 100], got %v", c.Support.PlatformFeePercent)
	}
	return nil
}

// parseOrigins accepts a JSON list or a comma separated list.
func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	var origins []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &origins); err == nil {
			return origins
		}
	}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
