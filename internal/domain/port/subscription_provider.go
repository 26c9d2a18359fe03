// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces the subscription relay depends on.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
)

// ProviderResponse is a successful reply from the email marketing provider
type ProviderResponse struct {
	StatusCode int
	Body       []byte
	// SubscriptionID is the provider id of the subscription, empty when the body has none
	SubscriptionID string
}

// SubscriptionProvider registers an address with the external email marketing provider.
// Failures are returned as pkg/errors types so callers can map them to a status.
type SubscriptionProvider interface {
	// Subscribe issues exactly one subscription call for the request
	Subscribe(ctx context.Context, request *model.SubscriptionRequest) (*ProviderResponse, error)

	// IsReady reports whether the provider can be called
	IsReady(ctx context.Context) error
}
