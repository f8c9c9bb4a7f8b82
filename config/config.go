package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME" default:"labplanner"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		// APIKey is the bcrypt hash of the key internal services send in X-API-Key.
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Booking struct {
		MaxDescriptionLength  int    `envconfig:"MAX_DESCRIPTION_LENGTH" default:"200"`
		MaxNoteLength         int    `envconfig:"MAX_NOTE_LENGTH"        default:"500"`
		CollisionStrategy     string `envconfig:"COLLISION_STRATEGY"     default:"per_day"`
		DefaultMaxTests       int    `envconfig:"DEFAULT_MAX_TESTS"      default:"1"`
		DefaultSides          int    `envconfig:"DEFAULT_SIDES"          default:"1"`
		DefaultTextColor      string `envconfig:"DEFAULT_TEXT_COLOR"     default:"#ffffff"`
		OverrideRetentionDays int    `envconfig:"OVERRIDE_RETENTION_DAYS"`
		ExportDirectory       string `envconfig:"EXPORT_DIRECTORY"       default:"exports"`
	} `envconfig:"BOOKING"`

	Scheduler struct {
		Enable        bool   `envconfig:"ENABLE"`
		PurgeAtHour   uint   `envconfig:"PURGE_AT_HOUR"   default:"0"`
		PurgeAtMinute uint   `envconfig:"PURGE_AT_MINUTE" default:"5"`
		Timezone      string `envconfig:"TIMEZONE"`
	} `envconfig:"SCHEDULER"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		Topic   struct {
			Booking  string `envconfig:"BOOKING"  default:"labplanner.booking"`
			Override string `envconfig:"OVERRIDE" default:"labplanner.capacity-override"`
		} `envconfig:"TOPIC"`
		SASL struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	ErrInvalidStrategy = errors.New("BOOKING_COLLISION_STRATEGY must be per_day or whole_range")
	ErrInvalidLimits   = errors.New("BOOKING_MAX_DESCRIPTION_LENGTH and BOOKING_MAX_NOTE_LENGTH must be positive")
	ErrInvalidSchedule = errors.New("SCHEDULER_PURGE_AT_HOUR must be below 24 and SCHEDULER_PURGE_AT_MINUTE below 60")
)

// Validate rejects settings that would only fail later, on the first request.
func (c *Config) Validate() error {
	switch c.Booking.CollisionStrategy {
	case "per_day", "whole_range":
	default:
		return ErrInvalidStrategy
	}

	if c.Booking.MaxDescriptionLength <= 0 || c.Booking.MaxNoteLength <= 0 {
		return ErrInvalidLimits
	}

	if c.Scheduler.PurgeAtHour > 23 || c.Scheduler.PurgeAtMinute > 59 {
		return ErrInvalidSchedule
	}

	return nil
}

// Load reads .env when present, then the process environment. A missing
// .env is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using the process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var load = sync.OnceValues(Load)

// Get returns the process-wide configuration and exits when it cannot be loaded.
func Get() *Config {
	cfg, err := load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return cfg
}
