// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Provider environment variables
const (
	EnvFormID             = "FORM_ID"
	EnvAPIKey             = "API_KEY"
	EnvProviderSource     = "PROVIDER_SOURCE"
	EnvProviderBaseURL    = "PROVIDER_BASE_URL"
	EnvProviderTimeout    = "PROVIDER_TIMEOUT"
	EnvProviderMaxRetries = "PROVIDER_MAX_RETRIES"
	EnvProviderRetryDelay = "PROVIDER_RETRY_DELAY"
)

// HTTP server environment variables
const (
	EnvPort           = "PORT"
	EnvConfigFile     = "CONFIG_FILE"
	EnvBodyLimitBytes = "BODY_LIMIT_BYTES"
	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"
)

// Messaging environment variables
const (
	EnvPublisherSource   = "PUBLISHER_SOURCE"
	EnvEventEncoding     = "EVENT_ENCODING"
	EnvNATSURL           = "NATS_URL"
	EnvNATSTimeout       = "NATS_TIMEOUT"
	EnvNATSMaxReconnect  = "NATS_MAX_RECONNECT"
	EnvNATSReconnectWait = "NATS_RECONNECT_WAIT"
)
