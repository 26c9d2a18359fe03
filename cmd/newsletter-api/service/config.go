// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/convertkit"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

// ServerConfig holds the inbound HTTP settings
type ServerConfig struct {
	Port           string  `yaml:"port"`
	BodyLimitBytes int64   `yaml:"body_limit_bytes"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Config is the complete relay configuration
type Config struct {
	Server          ServerConfig      `yaml:"server"`
	ProviderSource  string            `yaml:"provider_source"`
	Provider        convertkit.Config `yaml:"provider"`
	PublisherSource string            `yaml:"publisher_source"`
	NATS            nats.Config       `yaml:"nats"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:           constants.DefaultPort,
			BodyLimitBytes: constants.DefaultBodyLimitBytes,
			RateLimitRPS:   1,
			RateLimitBurst: 5,
		},
		ProviderSource:  constants.SourceConvertKit,
		Provider:        convertkit.DefaultConfig(),
		PublisherSource: constants.SourceNone,
		NATS:            nats.DefaultConfig(),
	}
}

// LoadConfig reads the optional YAML file at path, then applies environment overrides.
// An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// ApplyEnv overrides fields with any environment variables that are set
func (c *Config) ApplyEnv() error {
	if port := os.Getenv(constants.EnvPort); port != "" {
		c.Server.Port = port
	}

	if limit := os.Getenv(constants.EnvBodyLimitBytes); limit != "" {
		value, err := strconv.ParseInt(limit, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %s: %w", constants.EnvBodyLimitBytes, limit, err)
		}
		c.Server.BodyLimitBytes = value
	}

	if rps := os.Getenv(constants.EnvRateLimitRPS); rps != "" {
		value, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %s: %w", constants.EnvRateLimitRPS, rps, err)
		}
		c.Server.RateLimitRPS = value
	}

	if burst := os.Getenv(constants.EnvRateLimitBurst); burst != "" {
		value, err := strconv.Atoi(burst)
		if err != nil {
			return fmt.Errorf("invalid %s value %s: %w", constants.EnvRateLimitBurst, burst, err)
		}
		c.Server.RateLimitBurst = value
	}

	if source := os.Getenv(constants.EnvProviderSource); source != "" {
		c.ProviderSource = source
	}
	if source := os.Getenv(constants.EnvPublisherSource); source != "" {
		c.PublisherSource = source
	}

	c.Provider.ApplyEnv()

	if c.PublisherSource == constants.SourceNATS {
		if err := c.NATS.ApplyEnv(); err != nil {
			return err
		}
	}

	return nil
}
