// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionOutcome describes how a relayed subscription attempt ended
type SubscriptionOutcome string

// SubscriptionOutcome values
const (
	// OutcomeSubscribed means the provider accepted the address
	OutcomeSubscribed SubscriptionOutcome = "subscribed"
	// OutcomeRejected means the caller or the provider refused the input
	OutcomeRejected SubscriptionOutcome = "rejected"
	// OutcomeFailed means the relay could not complete the call
	OutcomeFailed SubscriptionOutcome = "failed"
)

// SubscriptionEvent is published once per relayed attempt.
// It intentionally holds no address and no credential.
type SubscriptionEvent struct {
	ID             string              `json:"id" msgpack:"id"`
	FormID         string              `json:"form_id" msgpack:"form_id"`
	SubscriptionID string              `json:"subscription_id,omitempty" msgpack:"subscription_id,omitempty"`
	Outcome        SubscriptionOutcome `json:"outcome" msgpack:"outcome"`
	StatusCode     int                 `json:"status_code" msgpack:"status_code"`
	RequestID      string              `json:"request_id,omitempty" msgpack:"request_id,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at" msgpack:"occurred_at"`
}

// NewSubscriptionEvent builds an event stamped with a fresh id and the current time
func NewSubscriptionEvent(formID string, outcome SubscriptionOutcome, statusCode int) *SubscriptionEvent {
	return &SubscriptionEvent{
		ID:         uuid.New().String(),
		FormID:     formID,
		Outcome:    outcome,
		StatusCode: statusCode,
		OccurredAt: time.Now().UTC(),
	}
}

// OutcomeForStatus classifies a relay status code
func OutcomeForStatus(statusCode int) SubscriptionOutcome {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return OutcomeSubscribed
	case statusCode >= 400 && statusCode < 500:
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
