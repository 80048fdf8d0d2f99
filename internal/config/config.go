package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	FaceProvider   string `envconfig:"FACE_PROVIDER" default:"insightface"`
	InsightFaceURL string `envconfig:"INSIGHTFACE_URL" default:"http://localhost:8000"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Recognition threshold: minimum cosine similarity to accept a match.
	// Lower admits more matches (more false positives), higher rejects more.
	RecognitionThreshold float64 `envconfig:"RECOGNITION_THRESHOLD" default:"0.4"`

	// Security
	APIKeyHash string `envconfig:"API_KEY_HASH" required:"true"`

	// Recognition runs allowed per section per minute. Zero disables the limit.
	RecognizeRateLimit int `envconfig:"RECOGNIZE_RATE_LIMIT" default:"60"`

	// Section gallery cache TTL. Zero disables the cache.
	GalleryCacheTTL time.Duration `envconfig:"GALLERY_CACHE_TTL" default:"5m"`

	// Attendance record retention in days. Zero keeps records forever.
	RetentionDays int `envconfig:"RETENTION_DAYS" default:"0"`

	// Webhook endpoint for attendance events. Empty disables delivery.
	WebhookURL    string `envconfig:"WEBHOOK_URL"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`

	// Signing secret for live feed tokens. Empty disables the live feed.
	LiveTokenSecret string `envconfig:"LIVE_TOKEN_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// A threshold outside the cosine similarity range can never be hit (or
	// always is); fail startup instead of misreporting attendance later.
	if cfg.RecognitionThreshold < -1 || cfg.RecognitionThreshold > 1 {
		return nil, fmt.Errorf("RECOGNITION_THRESHOLD must be in [-1, 1], got %v", cfg.RecognitionThreshold)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
