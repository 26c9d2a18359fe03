// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
)

// MessagePublisher publishes subscription events for downstream consumers
type MessagePublisher interface {
	// PublishSubscriptionEvent sends one event to the given subject
	PublishSubscriptionEvent(ctx context.Context, subject string, event *model.SubscriptionEvent) error
}
