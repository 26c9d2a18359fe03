// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   SubscriptionRequest
		wantErr   bool
		errSubstr string
	}{
		{
			name:    "valid email",
			request: SubscriptionRequest{Email: "user@example.com"},
		},
		{
			name:    "valid with optional fields",
			request: SubscriptionRequest{Email: "user@example.com", FirstName: "Jane", Tags: []int64{1, 2}},
		},
		{
			name:      "missing email",
			request:   SubscriptionRequest{},
			wantErr:   true,
			errSubstr: "email",
		},
		{
			name:      "malformed email",
			request:   SubscriptionRequest{Email: "not-an-email"},
			wantErr:   true,
			errSubstr: "email",
		},
		{
			name:      "email too long",
			request:   SubscriptionRequest{Email: strings.Repeat("a", 250) + "@example.com"},
			wantErr:   true,
			errSubstr: "email",
		},
		{
			name:      "first name too long",
			request:   SubscriptionRequest{Email: "user@example.com", FirstName: strings.Repeat("x", 256)},
			wantErr:   true,
			errSubstr: "first_name",
		},
		{
			name:      "non positive tag",
			request:   SubscriptionRequest{Email: "user@example.com", Tags: []int64{3, 0}},
			wantErr:   true,
			errSubstr: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestSubscriptionRequest_Normalize(t *testing.T) {
	request := SubscriptionRequest{Email: "  user@example.com\n", FirstName: " Jane "}

	request.Normalize()

	assert.Equal(t, "user@example.com", request.Email)
	assert.Equal(t, "Jane", request.FirstName)
	assert.NoError(t, request.Validate())
}

func TestOutcomeForStatus(t *testing.T) {
	assert.Equal(t, OutcomeSubscribed, OutcomeForStatus(201))
	assert.Equal(t, OutcomeRejected, OutcomeForStatus(400))
	assert.Equal(t, OutcomeRejected, OutcomeForStatus(409))
	assert.Equal(t, OutcomeFailed, OutcomeForStatus(502))
	assert.Equal(t, OutcomeFailed, OutcomeForStatus(504))
	assert.Equal(t, OutcomeFailed, OutcomeForStatus(500))
}

func TestNewSubscriptionEvent(t *testing.T) {
	event := NewSubscriptionEvent("form-1", OutcomeSubscribed, 201)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "form-1", event.FormID)
	assert.Equal(t, OutcomeSubscribed, event.Outcome)
	assert.Equal(t, 201, event.StatusCode)
	assert.False(t, event.OccurredAt.IsZero())

	other := NewSubscriptionEvent("form-1", OutcomeSubscribed, 201)
	assert.NotEqual(t, event.ID, other.ID)
}
