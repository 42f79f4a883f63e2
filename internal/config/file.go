// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with optional fields so the file layer only
// overrides what it actually sets. Durations are Go duration strings.
type fileConfig struct {
	ListenAddr   *string `yaml:"listenAddr"`
	LogLevel     *string `yaml:"logLevel"`
	RateLimitRPM *int    `yaml:"rateLimitRPM"`

	City         *string  `yaml:"city"`
	Cuisines     []string `yaml:"cuisines"`
	MinPartySize *int     `yaml:"minPartySize"`
	MaxPartySize *int     `yaml:"maxPartySize"`
	Timezone     *string  `yaml:"timezone"`

	RedisAddr     *string `yaml:"redisAddr"`
	RedisPassword *string `yaml:"redisPassword"`
	RedisDB       *int    `yaml:"redisDB"`
	QueueName     *string `yaml:"queueName"`
	IndexName     *string `yaml:"indexName"`

	DataDir *string `yaml:"dataDir"`

	BatchSize         *int    `yaml:"batchSize"`
	PollInterval      *string `yaml:"pollInterval"`
	VisibilityTimeout *string `yaml:"visibilityTimeout"`
	WorkerConcurrency *int    `yaml:"workerConcurrency"`

	SMTPHost      *string  `yaml:"smtpHost"`
	SMTPPort      *int     `yaml:"smtpPort"`
	SMTPUsername  *string  `yaml:"smtpUsername"`
	SMTPPassword  *string  `yaml:"smtpPassword"`
	FromEmail     *string  `yaml:"fromEmail"`
	MailRatePerS  *float64 `yaml:"mailRatePerS"`
	SMSEnabled    *bool    `yaml:"smsEnabled"`
	SMSGatewayURL *string  `yaml:"smsGatewayURL"`
}

// loadFile overlays the YAML file at path onto base.
func loadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := base
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.LogLevel, fc.LogLevel)
	setInt(&cfg.RateLimitRPM, fc.RateLimitRPM)

	setString(&cfg.City, fc.City)
	if len(fc.Cuisines) > 0 {
		cfg.Cuisines = fc.Cuisines
	}
	setInt(&cfg.MinPartySize, fc.MinPartySize)
	setInt(&cfg.MaxPartySize, fc.MaxPartySize)
	setString(&cfg.Timezone, fc.Timezone)

	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPassword, fc.RedisPassword)
	setInt(&cfg.RedisDB, fc.RedisDB)
	setString(&cfg.QueueName, fc.QueueName)
	setString(&cfg.IndexName, fc.IndexName)

	setString(&cfg.DataDir, fc.DataDir)

	setInt(&cfg.BatchSize, fc.BatchSize)
	if err := setDuration(&cfg.PollInterval, fc.PollInterval); err != nil {
		return Config{}, fmt.Errorf("pollInterval: %w", err)
	}
	if err := setDuration(&cfg.VisibilityTimeout, fc.VisibilityTimeout); err != nil {
		return Config{}, fmt.Errorf("visibilityTimeout: %w", err)
	}
	setInt(&cfg.WorkerConcurrency, fc.WorkerConcurrency)

	setString(&cfg.SMTPHost, fc.SMTPHost)
	setInt(&cfg.SMTPPort, fc.SMTPPort)
	setString(&cfg.SMTPUsername, fc.SMTPUsername)
	setString(&cfg.SMTPPassword, fc.SMTPPassword)
	setString(&cfg.FromEmail, fc.FromEmail)
	if fc.MailRatePerS != nil {
		cfg.MailRatePerS = *fc.MailRatePerS
	}
	if fc.SMSEnabled != nil {
		cfg.SMSEnabled = *fc.SMSEnabled
	}
	setString(&cfg.SMSGatewayURL, fc.SMSGatewayURL)
	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
