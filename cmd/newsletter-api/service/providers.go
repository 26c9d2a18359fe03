// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/convertkit"
	infrastructure "github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

// Providers holds the infrastructure selected by the *_SOURCE settings
type Providers struct {
	Subscription port.SubscriptionProvider
	Publisher    port.MessagePublisher

	natsClient *nats.NATSClient
}

// NewProviders initializes the subscription provider and the event publisher
func NewProviders(ctx context.Context, config Config) (*Providers, error) {
	subscription, err := SubscriptionProvider(ctx, config)
	if err != nil {
		return nil, err
	}

	providers := &Providers{Subscription: subscription}

	switch config.PublisherSource {
	case "", constants.SourceNone:
		slog.InfoContext(ctx, "subscription event publishing disabled")
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock message publisher")
		providers.Publisher = infrastructure.NewMockMessagePublisher()
	case constants.SourceNATS:
		slog.InfoContext(ctx, "initializing NATS message publisher")
		natsClient, err := nats.NewClient(ctx, config.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS client: %w", err)
		}
		providers.natsClient = natsClient
		providers.Publisher = nats.NewMessagePublisher(natsClient)
	default:
		return nil, fmt.Errorf("unsupported message publisher implementation: %s", config.PublisherSource)
	}

	return providers, nil
}

// SubscriptionProvider initializes the provider implementation based on the provider source
func SubscriptionProvider(ctx context.Context, config Config) (port.SubscriptionProvider, error) {
	switch config.ProviderSource {
	case "", constants.SourceConvertKit:
		slog.InfoContext(ctx, "initializing ConvertKit subscription provider")
		client, err := convertkit.NewClient(config.Provider)
		if err != nil {
			return nil, err
		}
		return client, nil
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock subscription provider")
		return infrastructure.NewMockSubscriptionProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported subscription provider implementation: %s", config.ProviderSource)
	}
}

// Relay builds the subscription relay over the selected providers
func (p *Providers) Relay(config Config) service.SubscriptionRelay {
	return service.NewSubscriptionRelay(
		service.WithSubscriptionProvider(p.Subscription),
		service.WithPublisher(p.Publisher),
		service.WithFormID(config.Provider.FormID),
		service.WithTimeout(config.Provider.Timeout),
	)
}

// Pingers returns the connections reported by the readiness probe next to the relay itself
func (p *Providers) Pingers() []health.Pinger {
	var pingers []health.Pinger
	if p.natsClient != nil {
		pingers = append(pingers, p.natsClient)
	}
	return pingers
}

// Close releases the NATS connection, if any
func (p *Providers) Close() error {
	if p.natsClient == nil {
		return nil
	}
	return p.natsClient.Close()
}
