package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parkdeck/libs/config"

	"parkdeck/internal/service"
)

// Config defines the parkdeck service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PARKDECK_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PARKDECK_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PARKDECK_REDIS_ADDR"`
		Password string `yaml:"password" env:"PARKDECK_REDIS_PASSWORD"`
		TTL      int    `yaml:"ttlSeconds" env:"PARKDECK_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		Secret   string        `yaml:"secret" env:"PARKDECK_AUTH_SECRET"`
		TokenTTL time.Duration `yaml:"tokenTTL" env:"PARKDECK_AUTH_TOKEN_TTL"`
	} `yaml:"auth"`
	Billing struct {
		HourlyRate         float64 `yaml:"hourlyRate" env:"PARKDECK_BILLING_HOURLY_RATE"`
		MinimumCharge      float64 `yaml:"minimumCharge" env:"PARKDECK_BILLING_MINIMUM_CHARGE"`
		GracePeriodMinutes int     `yaml:"gracePeriodMinutes" env:"PARKDECK_BILLING_GRACE_MINUTES"`
	} `yaml:"billing"`
}

// Load reads configuration via the shared helper and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 86400
	cfg.Auth.TokenTTL = 8 * time.Hour
	cfg.Billing.HourlyRate = 5.00
	cfg.Billing.MinimumCharge = 2.00
	cfg.Billing.GracePeriodMinutes = 15

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("config: auth secret required")
	}
	if cfg.Billing.HourlyRate <= 0 {
		return nil, errors.New("config: billing hourly rate must be positive")
	}
	if cfg.Billing.MinimumCharge < 0 {
		return nil, errors.New("config: billing minimum charge cannot be negative")
	}
	if cfg.Billing.GracePeriodMinutes < 0 {
		return nil, errors.New("config: billing grace period cannot be negative")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// OccupancyTTL returns the cache ttl as a duration.
func (c *Config) OccupancyTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// Rates returns the immutable billing configuration for the fee engine.
func (c *Config) Rates() service.RateConfig {
	return service.RateConfig{
		HourlyRate:         c.Billing.HourlyRate,
		MinimumCharge:      c.Billing.MinimumCharge,
		GracePeriodMinutes: c.Billing.GracePeriodMinutes,
	}
}
