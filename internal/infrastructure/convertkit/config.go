// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package convertkit

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

// Config holds the configuration for the ConvertKit client
type Config struct {
	// BaseURL is the provider API base URL
	BaseURL string `yaml:"base_url"`

	// APIVersion is the path prefix of the forms API
	APIVersion string `yaml:"api_version"`

	// FormID identifies the form (mailing list) addresses are subscribed to
	FormID string `yaml:"form_id"`

	// APIKey authenticates the relay to the provider. It is only ever sent in request bodies.
	APIKey string `yaml:"api_key"`

	// Timeout bounds one subscription call, retries included
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.convertkit.com",
		APIVersion: "v3",
		Timeout:    10 * time.Second,
		MaxRetries: 0,
		RetryDelay: 500 * time.Millisecond,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()
	config.ApplyEnv()
	return config
}

// ApplyEnv overrides fields with any provider environment variables that are set
func (c *Config) ApplyEnv() {
	if formID := os.Getenv(constants.EnvFormID); formID != "" {
		c.FormID = formID
	}

	if apiKey := os.Getenv(constants.EnvAPIKey); apiKey != "" {
		c.APIKey = apiKey
	}

	if baseURL := os.Getenv(constants.EnvProviderBaseURL); baseURL != "" {
		c.BaseURL = baseURL
	}

	if timeoutStr := os.Getenv(constants.EnvProviderTimeout); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			c.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv(constants.EnvProviderMaxRetries); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			c.MaxRetries = retries
		}
	}

	if delayStr := os.Getenv(constants.EnvProviderRetryDelay); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			c.RetryDelay = delay
		}
	}
}

// Validate reports configuration that would make every subscription fail
func (c Config) Validate() error {
	if c.FormID == "" || c.APIKey == "" {
		return fmt.Errorf("%s and %s are required", constants.EnvFormID, constants.EnvAPIKey)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid provider base URL %q", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("provider max retries must not be negative, got %d", c.MaxRetries)
	}

	return nil
}

// HasCredentials reports whether both the form id and the API key are set
func (c Config) HasCredentials() bool {
	return c.FormID != "" && c.APIKey != ""
}
