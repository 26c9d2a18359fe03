// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
)

// PublishedEvent is one event captured by MockMessagePublisher
type PublishedEvent struct {
	Subject string
	Event   model.SubscriptionEvent
}

// MockMessagePublisher is a mock implementation of the MessagePublisher interface
type MockMessagePublisher struct {
	events []PublishedEvent
	err    error
	mu     sync.RWMutex
}

// Ensure MockMessagePublisher implements the MessagePublisher interface
var _ port.MessagePublisher = (*MockMessagePublisher)(nil)

// NewMockMessagePublisher creates a new mock publisher for testing
func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{}
}

// PublishSubscriptionEvent captures the event (mock implementation - logs only)
func (m *MockMessagePublisher) PublishSubscriptionEvent(ctx context.Context, subject string, event *model.SubscriptionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.events = append(m.events, PublishedEvent{Subject: subject, Event: *event})

	slog.InfoContext(ctx, "mock subscription event published",
		"subject", subject,
		"outcome", event.Outcome,
	)
	return nil
}

// SetError makes every following publish fail with err
func (m *MockMessagePublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Events returns a copy of the captured events
func (m *MockMessagePublisher) Events() []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]PublishedEvent, len(m.events))
	copy(events, m.events)
	return events
}
