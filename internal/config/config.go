// SPDX-License-Identifier: MIT

// Package config loads runtime configuration with precedence ENV > file > defaults.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the full runtime configuration for both daemons.
type Config struct {
	// HTTP API
	ListenAddr   string `yaml:"listenAddr"`
	LogLevel     string `yaml:"logLevel"`
	RateLimitRPM int    `yaml:"rateLimitRPM"`

	// Dialog rules
	City         string   `yaml:"city"`
	Cuisines     []string `yaml:"cuisines"`
	MinPartySize int      `yaml:"minPartySize"`
	MaxPartySize int      `yaml:"maxPartySize"`
	Timezone     string   `yaml:"timezone"`

	// Redis (queue + search index)
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	QueueName     string `yaml:"queueName"`
	IndexName     string `yaml:"indexName"`

	// Record store
	DataDir string `yaml:"dataDir"`

	// Fulfillment worker
	BatchSize         int           `yaml:"batchSize"`
	PollInterval      time.Duration `yaml:"pollInterval"`
	VisibilityTimeout time.Duration `yaml:"visibilityTimeout"`
	WorkerConcurrency int           `yaml:"workerConcurrency"`

	// Notification
	SMTPHost      string  `yaml:"smtpHost"`
	SMTPPort      int     `yaml:"smtpPort"`
	SMTPUsername  string  `yaml:"smtpUsername"`
	SMTPPassword  string  `yaml:"smtpPassword"`
	FromEmail     string  `yaml:"fromEmail"`
	MailRatePerS  float64 `yaml:"mailRatePerS"`
	SMSEnabled    bool    `yaml:"smsEnabled"`
	SMSGatewayURL string  `yaml:"smsGatewayURL"`
}

// Defaults returns the built-in configuration baseline.
func Defaults() Config {
	return Config{
		ListenAddr:   ":8080",
		LogLevel:     "info",
		RateLimitRPM: 600,

		City:         "Manhattan",
		Cuisines:     []string{"indian", "chinese", "japanese", "italian", "american"},
		MinPartySize: 2,
		MaxPartySize: 20,
		Timezone:     "America/New_York",

		RedisAddr: "localhost:6379",
		QueueName: "suggestions",
		IndexName: "restaurants",

		DataDir: "/var/lib/concierge",

		BatchSize:         10,
		PollInterval:      30 * time.Second,
		VisibilityTimeout: 2 * time.Minute,
		WorkerConcurrency: 4,

		SMTPPort:     587,
		MailRatePerS: 1,
	}
}

// FromEnv applies CONCIERGE_* environment variables on top of base.
func FromEnv(base Config) Config {
	cfg := base
	cfg.ListenAddr = ParseString("CONCIERGE_LISTEN", base.ListenAddr)
	cfg.LogLevel = ParseString("CONCIERGE_LOG_LEVEL", base.LogLevel)
	cfg.RateLimitRPM = ParseInt("CONCIERGE_RATE_LIMIT_RPM", base.RateLimitRPM)

	cfg.City = ParseString("CONCIERGE_CITY", base.City)
	cfg.Cuisines = ParseStringSlice("CONCIERGE_CUISINES", base.Cuisines)
	cfg.MinPartySize = ParseInt("CONCIERGE_MIN_PARTY", base.MinPartySize)
	cfg.MaxPartySize = ParseInt("CONCIERGE_MAX_PARTY", base.MaxPartySize)
	cfg.Timezone = ParseString("CONCIERGE_TIMEZONE", base.Timezone)

	cfg.RedisAddr = ParseString("CONCIERGE_REDIS_ADDR", base.RedisAddr)
	cfg.RedisPassword = ParseString("CONCIERGE_REDIS_PASSWORD", base.RedisPassword)
	cfg.RedisDB = ParseInt("CONCIERGE_REDIS_DB", base.RedisDB)
	cfg.QueueName = ParseString("CONCIERGE_QUEUE", base.QueueName)
	cfg.IndexName = ParseString("CONCIERGE_INDEX", base.IndexName)

	cfg.DataDir = ParseString("CONCIERGE_DATA_DIR", base.DataDir)

	cfg.BatchSize = ParseInt("CONCIERGE_BATCH_SIZE", base.BatchSize)
	cfg.PollInterval = ParseDuration("CONCIERGE_POLL_INTERVAL", base.PollInterval)
	cfg.VisibilityTimeout = ParseDuration("CONCIERGE_VISIBILITY_TIMEOUT", base.VisibilityTimeout)
	cfg.WorkerConcurrency = ParseInt("CONCIERGE_WORKER_CONCURRENCY", base.WorkerConcurrency)

	cfg.SMTPHost = ParseString("CONCIERGE_SMTP_HOST", base.SMTPHost)
	cfg.SMTPPort = ParseInt("CONCIERGE_SMTP_PORT", base.SMTPPort)
	cfg.SMTPUsername = ParseString("CONCIERGE_SMTP_USERNAME", base.SMTPUsername)
	cfg.SMTPPassword = ParseString("CONCIERGE_SMTP_PASSWORD", base.SMTPPassword)
	cfg.FromEmail = ParseString("CONCIERGE_FROM_EMAIL", base.FromEmail)
	cfg.SMSEnabled = ParseBool("CONCIERGE_SMS_ENABLED", base.SMSEnabled)
	cfg.SMSGatewayURL = ParseString("CONCIERGE_SMS_GATEWAY_URL", base.SMSGatewayURL)
	return cfg
}

// Load builds the effective configuration: defaults, then the optional YAML file
// at path, then environment variables. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := loadFile(path, cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		cfg = fileCfg
	}
	return FromEnv(cfg), nil
}

// Validate performs fail-fast startup checks on the shared configuration.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.City) == "" {
		return fmt.Errorf("supported city must not be empty")
	}
	if len(cfg.Cuisines) == 0 {
		return fmt.Errorf("cuisine set must not be empty")
	}
	if cfg.MinPartySize < 1 || cfg.MaxPartySize < cfg.MinPartySize {
		return fmt.Errorf("invalid party size bounds %d..%d", cfg.MinPartySize, cfg.MaxPartySize)
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return fmt.Errorf("redis address must not be empty")
	}
	if strings.TrimSpace(cfg.QueueName) == "" {
		return fmt.Errorf("queue name must not be empty")
	}
	if cfg.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.VisibilityTimeout <= 0 {
		return fmt.Errorf("visibility timeout must be positive, got %s", cfg.VisibilityTimeout)
	}
	if _, err := LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return nil
}

// ValidateNotifier checks the settings the fulfillment worker needs to deliver mail.
func ValidateNotifier(cfg Config) error {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return fmt.Errorf("SMTP host must not be empty")
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port %d", cfg.SMTPPort)
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return fmt.Errorf("sender email must not be empty")
	}
	if cfg.SMSEnabled && strings.TrimSpace(cfg.SMSGatewayURL) == "" {
		return fmt.Errorf("SMS enabled but gateway URL is empty")
	}
	return nil
}

// LoadLocation resolves the configured time zone.
func LoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}
