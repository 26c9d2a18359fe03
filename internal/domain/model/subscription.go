// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model contains the domain types of the newsletter service.
package model

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Email address length bounds (RFC 5321 path limit)
const (
	emailMinLength = 3
	emailMaxLength = 254

	firstNameMaxLength = 255
)

// SubscriptionRequest is an inbound newsletter signup.
// It lives for the duration of one call and is never stored.
type SubscriptionRequest struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	Tags      []int64 `json:"tags,omitempty"`
}

// Normalize trims surrounding whitespace from the caller supplied fields
func (r *SubscriptionRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
}

// Validate checks the request shape before anything is sent to the provider
func (r *SubscriptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(emailMinLength, emailMaxLength),
			is.Email,
		),
		validation.Field(&r.FirstName, validation.Length(0, firstNameMaxLength)),
		validation.Field(&r.Tags, validation.Each(validation.Min(int64(1)))),
	)
}

// SubscriptionResult is what the relay hands back to its caller on success
type SubscriptionResult struct {
	// StatusCode is the status reported to the caller
	StatusCode int
	// Body is the provider response, passed through untouched apart from secret scrubbing
	Body json.RawMessage
	// SubscriptionID is the provider side id, used for logs and events only
	SubscriptionID string
}
