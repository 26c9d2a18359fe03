// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the newsletter service.
package constants

import "time"

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "newsletter"

	// DefaultPort is the HTTP port used when PORT is not set
	DefaultPort = "8080"

	// DefaultBodyLimitBytes caps inbound request bodies
	DefaultBodyLimitBytes int64 = 1 << 20

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 25 * time.Second
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"

	// ContentTypeHeader is the HTTP content type header
	ContentTypeHeader = "Content-Type"

	// ContentTypeJSON is the media type used for every JSON body
	ContentTypeJSON = "application/json"
)

// Source selection values shared by the *_SOURCE environment variables
const (
	SourceConvertKit = "convertkit"
	SourceNATS       = "nats"
	SourceMock       = "mock"
	SourceNone       = "none"
)
