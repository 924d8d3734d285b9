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

	// Face providers
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Matching. MatchTolerance is the single canonical threshold for the
	// whole service; entry points must not carry their own defaults.
	MatchTolerance   float64 `envconfig:"MATCH_TOLERANCE" default:"0.6"`
	MaxFacesPerFrame int     `envconfig:"MAX_FACES_PER_FRAME" default:"5"`

	// Notifications
	QueueMaxSize   int           `envconfig:"QUEUE_MAX_SIZE" default:"500"`
	DequeueTimeout time.Duration `envconfig:"DEQUEUE_TIMEOUT" default:"1s"`
	WebhookURL     string        `envconfig:"WEBHOOK_URL" default:""`
	WebhookSecret  string        `envconfig:"WEBHOOK_SECRET" default:""`
	SMTPAddr       string        `envconfig:"SMTP_ADDR" default:""`
	SMTPFrom       string        `envconfig:"SMTP_FROM" default:"alerts@centinela.local"`
	SMTPTo         string        `envconfig:"SMTP_TO" default:""`

	// Frame submissions per camera per minute
	FrameRatePerMin int `envconfig:"FRAME_RATE_PER_MIN" default:"600"`

	// Alert history cache
	HistoryLoadLimit int           `envconfig:"HISTORY_LOAD_LIMIT" default:"200"`
	HistoryTTL       time.Duration `envconfig:"HISTORY_TTL" default:"168h"`
	HistoryPruneTick time.Duration `envconfig:"HISTORY_PRUNE_TICK" default:"1h"`

	// Security
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the pipeline cannot operate with.
func (c *Config) Validate() error {
	if c.MatchTolerance < 0 || c.MatchTolerance > 1 {
		return fmt.Errorf("MATCH_TOLERANCE must be in [0,1], got %v", c.MatchTolerance)
	}
	if c.MaxFacesPerFrame < 1 {
		return fmt.Errorf("MAX_FACES_PER_FRAME must be >= 1, got %d", c.MaxFacesPerFrame)
	}
	if c.QueueMaxSize < 1 {
		return fmt.Errorf("QUEUE_MAX_SIZE must be >= 1, got %d", c.QueueMaxSize)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
