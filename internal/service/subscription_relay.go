// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service contains the subscription relay orchestration.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
)

const (
	// DefaultRelayTimeout bounds one provider call when no timeout is configured
	DefaultRelayTimeout = 10 * time.Second

	publishTimeout = 2 * time.Second

	instrumentationName = "github.com/linuxfoundation/lfx-v2-newsletter-service/internal/service"
)

// SubscriptionRelay forwards signup requests to the email marketing provider
type SubscriptionRelay interface {
	// Subscribe validates the request and relays it to the provider exactly once
	Subscribe(ctx context.Context, request *model.SubscriptionRequest) (*model.SubscriptionResult, error)

	// IsReady reports whether subscriptions can currently be relayed
	IsReady(ctx context.Context) error
}

// subscriptionRelayOption defines a function type for setting options on the relay
type subscriptionRelayOption func(*subscriptionRelay)

// WithSubscriptionProvider sets the provider subscriptions are relayed to
func WithSubscriptionProvider(provider port.SubscriptionProvider) subscriptionRelayOption {
	return func(r *subscriptionRelay) {
		r.provider = provider
	}
}

// WithPublisher sets the event publisher (may be nil to disable events)
func WithPublisher(publisher port.MessagePublisher) subscriptionRelayOption {
	return func(r *subscriptionRelay) {
		r.publisher = publisher
	}
}

// WithFormID sets the form id reported in subscription events
func WithFormID(formID string) subscriptionRelayOption {
	return func(r *subscriptionRelay) {
		r.formID = formID
	}
}

// WithTimeout bounds each provider call
func WithTimeout(timeout time.Duration) subscriptionRelayOption {
	return func(r *subscriptionRelay) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMeterProvider overrides the global OpenTelemetry meter provider
func WithMeterProvider(provider metric.MeterProvider) subscriptionRelayOption {
	return func(r *subscriptionRelay) {
		r.meterProvider = provider
	}
}

// subscriptionRelay orchestrates validation, the provider call and event publishing
type subscriptionRelay struct {
	provider      port.SubscriptionProvider
	publisher     port.MessagePublisher
	formID        string
	timeout       time.Duration
	meterProvider metric.MeterProvider
	counter       metric.Int64Counter
}

// NewSubscriptionRelay creates a new relay using the option pattern
func NewSubscriptionRelay(opts ...subscriptionRelayOption) SubscriptionRelay {
	r := &subscriptionRelay{
		timeout:       DefaultRelayTimeout,
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(r)
	}

	counter, err := r.meterProvider.Meter(instrumentationName).Int64Counter(
		"newsletter.subscriptions",
		metric.WithDescription("Relayed newsletter subscription attempts by outcome"),
		metric.WithUnit("{subscription}"),
	)
	if err != nil {
		slog.Warn("failed to create subscription counter", "error", err)
	}
	r.counter = counter

	return r
}

// Subscribe validates the request and relays it to the provider exactly once
func (r *subscriptionRelay) Subscribe(ctx context.Context, request *model.SubscriptionRequest) (*model.SubscriptionResult, error) {
	if request == nil {
		request = &model.SubscriptionRequest{}
	}
	request.Normalize()

	if err := request.Validate(); err != nil {
		slog.WarnContext(ctx, "invalid subscription request", "error", err)
		validationErr := errs.NewValidation(err.Error())
		r.finish(ctx, http.StatusBadRequest, "")
		return nil, validationErr
	}

	if err := r.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "newsletter provider is not configured",
			"error", err,
			log.PriorityCritical(),
		)
		configErr := errs.NewUnexpected("newsletter provider is not configured", err)
		r.finish(ctx, http.StatusInternalServerError, "")
		return nil, configErr
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.provider.Subscribe(callCtx, request)
	if err != nil {
		status := errs.HTTPStatus(err)
		slog.WarnContext(ctx, "subscription relay failed",
			log.Email(request.Email),
			"status_code", status,
			"error", err,
		)
		r.finish(ctx, status, "")
		return nil, err
	}

	result := &model.SubscriptionResult{
		StatusCode:     http.StatusCreated,
		Body:           json.RawMessage(resp.Body),
		SubscriptionID: resp.SubscriptionID,
	}

	slog.InfoContext(ctx, "subscription relayed",
		log.Email(request.Email),
		"provider_status", resp.StatusCode,
		"subscription_id", resp.SubscriptionID,
	)
	r.finish(ctx, result.StatusCode, result.SubscriptionID)

	return result, nil
}

// IsReady reports whether a provider is wired and configured
func (r *subscriptionRelay) IsReady(ctx context.Context) error {
	if r.provider == nil {
		return errs.NewUnexpected("no newsletter provider configured")
	}
	return r.provider.IsReady(ctx)
}

// finish records the outcome metric and publishes the subscription event
func (r *subscriptionRelay) finish(ctx context.Context, statusCode int, subscriptionID string) {
	outcome := model.OutcomeForStatus(statusCode)

	if r.counter != nil {
		r.counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", string(outcome)),
			attribute.Int("status_code", statusCode),
		))
	}

	if r.publisher == nil {
		return
	}

	event := model.NewSubscriptionEvent(r.formID, outcome, statusCode)
	event.SubscriptionID = subscriptionID
	if requestID, ok := ctx.Value(constants.RequestIDContextKey).(string); ok {
		event.RequestID = requestID
	}

	// detached from the caller's cancellation, bounded by publishTimeout
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.publisher.PublishSubscriptionEvent(publishCtx, constants.SubscriptionEventSubject, event); err != nil {
		slog.WarnContext(ctx, "failed to publish subscription event",
			"error", err,
			"event_id", event.ID,
			"outcome", outcome,
		)
	}
}
