// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package convertkit

// subscribeRequest is the body of POST /v3/forms/{form_id}/subscribe
type subscribeRequest struct {
	APIKey    string  `json:"api_key"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	Tags      []int64 `json:"tags,omitempty"`
}

// Paths into provider payloads, read with gjson so the body itself stays opaque
const (
	subscriptionIDPath = "subscription.id"
	errorPath          = "error"
	messagePath        = "message"
)
