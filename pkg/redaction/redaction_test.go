// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"regular address", "jane.doe@example.com", "j***@example.com"},
		{"single character local part", "j@example.com", "j***@example.com"},
		{"surrounding whitespace", "  jane@example.com ", "j***@example.com"},
		{"empty", "", ""},
		{"no at sign", "not-an-email", "***"},
		{"leading at sign", "@example.com", "***"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RedactEmail(tc.input))
		})
	}
}

func TestRedactSecret(t *testing.T) {
	assert.Equal(t, "", RedactSecret(""))
	assert.Equal(t, Redacted, RedactSecret("sk_live_123"))
}

func TestScrub(t *testing.T) {
	body := []byte(`{"api_key":"sk_live_123","echo":"sk_live_123"}`)

	scrubbed := Scrub(body, "sk_live_123")
	assert.NotContains(t, string(scrubbed), "sk_live_123")
	assert.Equal(t, `{"api_key":"[REDACTED]","echo":"[REDACTED]"}`, string(scrubbed))

	assert.Equal(t, body, Scrub(body, ""), "empty secret must not alter the payload")
	assert.Nil(t, Scrub(nil, "sk_live_123"))
	assert.Equal(t, "key=[REDACTED]", ScrubString("key=sk_live_123", "sk_live_123"))
	assert.Equal(t, "key=x", ScrubString("key=x", ""))
}
