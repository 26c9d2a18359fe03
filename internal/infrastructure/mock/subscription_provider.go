// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the service ports for tests and local runs.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
)

// MockSubscriptionProvider records every subscription call and answers like the provider would
type MockSubscriptionProvider struct {
	calls         []model.SubscriptionRequest
	nextID        int64
	globalError   error
	errorsByEmail map[string]error // lowercased email -> error
	notReady      error
	mu            sync.RWMutex
}

var _ port.SubscriptionProvider = (*MockSubscriptionProvider)(nil)

// NewMockSubscriptionProvider creates a provider that accepts every address
func NewMockSubscriptionProvider() *MockSubscriptionProvider {
	return &MockSubscriptionProvider{
		nextID:        1,
		errorsByEmail: make(map[string]error),
	}
}

// Subscribe records the call and returns either the configured error or a subscription body
func (m *MockSubscriptionProvider) Subscribe(ctx context.Context, request *model.SubscriptionRequest) (*port.ProviderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, *request)

	slog.DebugContext(ctx, "mock provider subscribe called",
		log.Email(request.Email),
		"call_count", len(m.calls),
	)

	if m.globalError != nil {
		return nil, m.globalError
	}
	if err, ok := m.errorsByEmail[strings.ToLower(request.Email)]; ok {
		return nil, err
	}

	id := m.nextID
	m.nextID++

	return &port.ProviderResponse{
		StatusCode:     http.StatusOK,
		Body:           []byte(fmt.Sprintf(`{"subscription":{"id":%d,"state":"inactive"}}`, id)),
		SubscriptionID: fmt.Sprintf("%d", id),
	}, nil
}

// IsReady returns the error configured with SetNotReady, if any
func (m *MockSubscriptionProvider) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notReady
}

// Name identifies the provider in readiness reports
func (m *MockSubscriptionProvider) Name() string {
	return constants.SourceMock
}

// Ping implements the health checker contract
func (m *MockSubscriptionProvider) Ping(ctx context.Context) error {
	return m.IsReady(ctx)
}

// SetError makes every following call fail with err
func (m *MockSubscriptionProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalError = err
}

// SetErrorForEmail makes calls for one address fail with err
func (m *MockSubscriptionProvider) SetErrorForEmail(email string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorsByEmail[strings.ToLower(email)] = err
}

// SetNotReady makes IsReady report err
func (m *MockSubscriptionProvider) SetNotReady(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notReady = err
}

// ClearErrors removes all simulated failures
func (m *MockSubscriptionProvider) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalError = nil
	m.notReady = nil
	m.errorsByEmail = make(map[string]error)
}

// CallCount returns the number of Subscribe calls seen so far
func (m *MockSubscriptionProvider) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded requests
func (m *MockSubscriptionProvider) Calls() []model.SubscriptionRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]model.SubscriptionRequest, len(m.calls))
	copy(calls, m.calls)
	return calls
}
