// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subject constants for message publishing
const (
	// SubscriptionEventSubject carries one event per relayed subscription attempt
	SubscriptionEventSubject = "lfx.newsletter.subscription"
)

// Event payload encodings
const (
	EventEncodingJSON    = "json"
	EventEncodingMsgpack = "msgpack"
)

// Event publishing retry configuration
const (
	EventPublishMaxAttempts = 3
	EventPublishBaseDelay   = 100  // milliseconds
	EventPublishMaxDelay    = 2000 // milliseconds
)
