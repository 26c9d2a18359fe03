// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "address is redacted",
			input:    "jane.doe@example.com",
			expected: "j***@example.com",
		},
		{
			name:     "empty address stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "malformed address is fully masked",
			input:    "jane",
			expected: "***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Email(tt.input)
			assert.Equal(t, "email", attr.Key)
			assert.Equal(t, tt.expected, attr.Value.String())
		})
	}
}

func TestAppendCtx(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	parent := AppendCtx(context.Background(), slog.String("request_id", "req-1"))
	first := AppendCtx(parent, slog.String("branch", "first"))
	second := AppendCtx(parent, slog.String("branch", "second"))

	logger.InfoContext(first, "first message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "first", record["branch"])

	buf.Reset()
	logger.InfoContext(second, "second message")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "second", record["branch"], "sibling contexts must not share attributes")
}

func TestAppendCtx_NilParent(t *testing.T) {
	//nolint:staticcheck // a nil parent is tolerated on purpose
	ctx := AppendCtx(nil, slog.String("key", "value"))
	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	assert.Len(t, attrs, 1)
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, "critical", attr.Value.String())
}

func TestLevelFromEnv(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelDebug,
		"bogus": slog.LevelDebug,
	}

	for value, expected := range tests {
		t.Run("LOG_LEVEL="+value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", value)
			assert.Equal(t, expected, levelFromEnv())
		})
	}
}
