// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data and secrets before they reach logs or callers.
package redaction

import (
	"bytes"
	"strings"
)

// Redacted replaces any secret value removed from a payload.
const Redacted = "[REDACTED]"

// RedactEmail keeps the first character of the local part and the domain.
//
//	RedactEmail("jane.doe@example.com") // "j***@example.com"
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	return email[:1] + "***" + email[at:]
}

// RedactSecret returns a fixed placeholder for non-empty secrets so logs can
// show whether a value was configured without showing the value.
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return Redacted
}

// Scrub replaces every occurrence of secret in payload with Redacted.
// An empty secret leaves the payload untouched.
func Scrub(payload []byte, secret string) []byte {
	if secret == "" || len(payload) == 0 {
		return payload
	}
	return bytes.ReplaceAll(payload, []byte(secret), []byte(Redacted))
}

// ScrubString is the string form of Scrub.
func ScrubString(payload, secret string) string {
	if secret == "" {
		return payload
	}
	return strings.ReplaceAll(payload, secret, Redacted)
}
