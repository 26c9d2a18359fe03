// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package convertkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.convertkit.com", cfg.BaseURL)
	assert.Equal(t, "v3", cfg.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.False(t, cfg.HasCredentials())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("FORM_ID", "99")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:9000")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PROVIDER_MAX_RETRIES", "2")
	t.Setenv("PROVIDER_RETRY_DELAY", "250ms")

	cfg := NewConfigFromEnv()

	assert.Equal(t, "99", cfg.FormID)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromEnv_IgnoresUnparsableValues(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "soon")
	t.Setenv("PROVIDER_MAX_RETRIES", "many")
	t.Setenv("PROVIDER_RETRY_DELAY", "")

	cfg := NewConfigFromEnv()

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.FormID = "1"
		cfg.APIKey = "key"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing form id", func(c *Config) { c.FormID = "" }, true},
		{"missing api key", func(c *Config) { c.APIKey = "" }, true},
		{"relative base url", func(c *Config) { c.BaseURL = "/v3" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
