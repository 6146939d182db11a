package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIKey string `envconfig:"API_KEY"`

	OutputDir      string `envconfig:"OUTPUT_DIR" default:"data/discovered"`
	CheckpointFile string `envconfig:"CHECKPOINT_FILE" default:"data/checkpoint.txt"`
	LedgerFile     string `envconfig:"LEDGER_FILE" default:"data/quota_ledger.csv"`

	MaxPagesPerUnit   int           `envconfig:"MAX_PAGES_PER_UNIT" default:"4"`
	DailyQuotaCeiling int64         `envconfig:"DAILY_QUOTA_CEILING" default:"10000"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"4"`

	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	SentryDSN string `envconfig:"SENTRY_DSN"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"channelscout-archive"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CHANNELSCOUT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// RequireAPIKey fails when no API key is configured. Called by commands
// that touch the network; dry-run and file-only commands skip it.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("CHANNELSCOUT_API_KEY is required for this command")
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
