// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

// Config holds the NATS connection and publishing settings
type Config struct {
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxReconnect  int           `yaml:"max_reconnect"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`

	// Encoding selects the event payload format, json or msgpack
	Encoding string `yaml:"encoding"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
		Encoding:      constants.EventEncodingJSON,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := config.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ApplyEnv overrides fields with any NATS environment variables that are set
func (c *Config) ApplyEnv() error {
	if natsURL := os.Getenv(constants.EnvNATSURL); natsURL != "" {
		c.URL = natsURL
	}

	if natsTimeout := os.Getenv(constants.EnvNATSTimeout); natsTimeout != "" {
		timeout, err := time.ParseDuration(natsTimeout)
		if err != nil {
			return fmt.Errorf("invalid NATS timeout duration %s: %w", natsTimeout, err)
		}
		c.Timeout = timeout
	}

	if natsMaxReconnect := os.Getenv(constants.EnvNATSMaxReconnect); natsMaxReconnect != "" {
		maxReconnect, err := strconv.Atoi(natsMaxReconnect)
		if err != nil {
			return fmt.Errorf("invalid NATS max reconnect value %s: %w", natsMaxReconnect, err)
		}
		c.MaxReconnect = maxReconnect
	}

	if natsReconnectWait := os.Getenv(constants.EnvNATSReconnectWait); natsReconnectWait != "" {
		reconnectWait, err := time.ParseDuration(natsReconnectWait)
		if err != nil {
			return fmt.Errorf("invalid NATS reconnect wait duration %s: %w", natsReconnectWait, err)
		}
		c.ReconnectWait = reconnectWait
	}

	if encoding := os.Getenv(constants.EnvEventEncoding); encoding != "" {
		c.Encoding = encoding
	}

	return c.validateEncoding()
}

func (c Config) validateEncoding() error {
	switch c.Encoding {
	case constants.EventEncodingJSON, constants.EventEncodingMsgpack:
		return nil
	default:
		return fmt.Errorf("unsupported event encoding %q", c.Encoding)
	}
}
