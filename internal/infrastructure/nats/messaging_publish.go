// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/utils"
)

// messagingPublisher implements the MessagePublisher interface using NATS
type messagingPublisher struct {
	client *NATSClient
	retry  utils.RetryConfig
}

// PublishSubscriptionEvent publishes one subscription event, retrying transient publish failures
func (m *messagingPublisher) PublishSubscriptionEvent(ctx context.Context, subject string, event *model.SubscriptionEvent) error {
	if err := m.client.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS client is not ready for publishing",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("NATS client is not ready", err)
	}

	data, contentType, err := encodeEvent(m.client.config.Encoding, event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode subscription event",
			"error", err,
			"subject", subject,
			"encoding", m.client.config.Encoding,
		)
		return errors.NewUnexpected("failed to encode subscription event", err)
	}

	msg := nats.NewMsg(subject)
	msg.Header.Set(constants.ContentTypeHeader, contentType)
	if event.RequestID != "" {
		msg.Header.Set(constants.RequestIDHeader, event.RequestID)
	}
	msg.Data = data

	err = utils.RetryWithExponentialBackoff(ctx, m.retry, func() error {
		return m.client.conn.PublishMsg(msg)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish subscription event to NATS",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("failed to publish subscription event", err)
	}

	slog.DebugContext(ctx, "subscription event published successfully",
		"subject", subject,
		"event_id", event.ID,
		"message_size", len(data),
	)

	return nil
}

// retryablePublishError is false for failures another attempt cannot fix
func retryablePublishError(err error) bool {
	return !stderrors.Is(err, nats.ErrConnectionClosed) &&
		!stderrors.Is(err, nats.ErrMaxPayload) &&
		!stderrors.Is(err, nats.ErrBadSubject)
}

// NewMessagePublisher creates a new MessagePublisher using NATS
func NewMessagePublisher(client *NATSClient) port.MessagePublisher {
	retry := utils.NewRetryConfig(
		constants.EventPublishMaxAttempts,
		constants.EventPublishBaseDelay*time.Millisecond,
		constants.EventPublishMaxDelay*time.Millisecond,
	)
	retry.ShouldRetry = retryablePublishError

	return &messagingPublisher{
		client: client,
		retry:  retry,
	}
}
