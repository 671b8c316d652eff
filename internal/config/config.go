package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins       string        `envconfig:"PROD_ORIGINS" default:""`
	HTTPAddr          string        `envconfig:"HTTP_ADDR" default:":8080"`
	DBDSN             string        `envconfig:"DB_DSN" required:"true"`
	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`
	StoragePath       string        `envconfig:"STORAGE_PATH" default:"./data"`

	Log       LogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Booking   BookingConfig

	IsProduction bool `ignored:"true"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// RedisConfig configures the booking summary cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"SUMMARY_CACHE_TTL" default:"5m"`
}

type RateLimitConfig struct {
	RPS     float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst   int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	// IdleTTL is how long a client's bucket survives without requests.
	IdleTTL time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"10m"`
}

// BookingConfig selects between the booking rule variants.
type BookingConfig struct {
	ForbidSelfBooking  bool          `envconfig:"BOOKING_FORBID_SELF" default:"true"`
	ForbidPastStart    bool          `envconfig:"BOOKING_FORBID_PAST_START" default:"false"`
	PastStartTolerance time.Duration `envconfig:"BOOKING_PAST_START_TOLERANCE" default:"1m"`
	AllowReapproval    bool          `envconfig:"BOOKING_ALLOW_REAPPROVAL" default:"true"`
	WaitingOccupies    bool          `envconfig:"BOOKING_WAITING_OCCUPIES" default:"false"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	return FromEnv()
}

// FromEnv decodes the process environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %d is outside 4..31", cfg.BcryptCost)
	}
	if cfg.JWTAccessTokenTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: must be positive")
	}
	if cfg.IsProduction && strings.TrimSpace(cfg.ProdOrigins) == "" {
		return nil, fmt.Errorf("PROD_ORIGINS is required when APP_ENV=%s", PROD_STRING)
	}
	if cfg.Booking.PastStartTolerance < 0 {
		return nil, fmt.Errorf("invalid BOOKING_PAST_START_TOLERANCE: must not be negative")
	}

	return cfg, nil
}
