// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/convertkit"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
)

const (
	testFormID = "4242"
	testAPIKey = "ck_relay_secret"
)

// blockingProvider waits for the call deadline, like a provider that never answers
type blockingProvider struct{}

func (blockingProvider) Subscribe(ctx context.Context, _ *model.SubscriptionRequest) (*port.ProviderResponse, error) {
	<-ctx.Done()
	return nil, errs.NewGatewayTimeout("newsletter provider timed out", ctx.Err())
}

func (blockingProvider) IsReady(context.Context) error { return nil }

func TestSubscriptionRelay_Subscribe(t *testing.T) {
	testCases := []struct {
		name           string
		setupMock      func(*mock.MockSubscriptionProvider)
		request        *model.SubscriptionRequest
		expectedStatus int
		expectedMsg    string
		expectedCalls  int
		expectedEvent  model.SubscriptionOutcome
	}{
		{
			name:           "valid request is relayed",
			request:        &model.SubscriptionRequest{Email: "user@example.com"},
			expectedStatus: http.StatusCreated,
			expectedCalls:  1,
			expectedEvent:  model.OutcomeSubscribed,
		},
		{
			name:           "surrounding whitespace is trimmed",
			request:        &model.SubscriptionRequest{Email: "  user@example.com "},
			expectedStatus: http.StatusCreated,
			expectedCalls:  1,
			expectedEvent:  model.OutcomeSubscribed,
		},
		{
			name:           "missing email is rejected before any call",
			request:        &model.SubscriptionRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email: cannot be blank.",
			expectedCalls:  0,
			expectedEvent:  model.OutcomeRejected,
		},
		{
			name:           "nil request is rejected",
			request:        nil,
			expectedStatus: http.StatusBadRequest,
			expectedCalls:  0,
			expectedEvent:  model.OutcomeRejected,
		},
		{
			name:           "malformed email is rejected",
			request:        &model.SubscriptionRequest{Email: "user@"},
			expectedStatus: http.StatusBadRequest,
			expectedCalls:  0,
			expectedEvent:  model.OutcomeRejected,
		},
		{
			name: "provider configuration missing",
			setupMock: func(provider *mock.MockSubscriptionProvider) {
				provider.SetNotReady(errors.New("FORM_ID and API_KEY are required"))
			},
			request:        &model.SubscriptionRequest{Email: "user@example.com"},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "newsletter provider is not configured",
			expectedCalls:  0,
			expectedEvent:  model.OutcomeFailed,
		},
		{
			name: "provider rejects the address",
			setupMock: func(provider *mock.MockSubscriptionProvider) {
				provider.SetError(errs.NewValidation("email invalid"))
			},
			request:        &model.SubscriptionRequest{Email: "user@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email invalid",
			expectedCalls:  1,
			expectedEvent:  model.OutcomeRejected,
		},
		{
			name: "provider unreachable",
			setupMock: func(provider *mock.MockSubscriptionProvider) {
				provider.SetError(errs.NewBadGateway("newsletter provider unreachable"))
			},
			request:        &model.SubscriptionRequest{Email: "user@example.com"},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "newsletter provider unreachable",
			expectedCalls:  1,
			expectedEvent:  model.OutcomeFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provider := mock.NewMockSubscriptionProvider()
			publisher := mock.NewMockMessagePublisher()
			if tc.setupMock != nil {
				tc.setupMock(provider)
			}

			relay := NewSubscriptionRelay(
				WithSubscriptionProvider(provider),
				WithPublisher(publisher),
				WithFormID(testFormID),
			)

			ctx := context.WithValue(context.Background(), constants.RequestIDContextKey, "req-1")
			result, err := relay.Subscribe(ctx, tc.request)

			assert.Equal(t, tc.expectedCalls, provider.CallCount())

			if tc.expectedStatus == http.StatusCreated {
				require.NoError(t, err)
				assert.Equal(t, http.StatusCreated, result.StatusCode)
				assert.JSONEq(t, `{"subscription":{"id":1,"state":"inactive"}}`, string(result.Body))
				assert.Equal(t, "1", result.SubscriptionID)
				assert.Equal(t, "user@example.com", provider.Calls()[0].Email)
			} else {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.Equal(t, tc.expectedStatus, errs.HTTPStatus(err))
				if tc.expectedMsg != "" {
					assert.Equal(t, tc.expectedMsg, errs.PublicMessage(err))
				}
			}

			events := publisher.Events()
			require.Len(t, events, 1)
			assert.Equal(t, constants.SubscriptionEventSubject, events[0].Subject)
			assert.Equal(t, tc.expectedEvent, events[0].Event.Outcome)
			assert.Equal(t, testFormID, events[0].Event.FormID)
			assert.Equal(t, "req-1", events[0].Event.RequestID)
		})
	}
}

func TestSubscriptionRelay_SameEmailTwice(t *testing.T) {
	provider := mock.NewMockSubscriptionProvider()
	relay := NewSubscriptionRelay(WithSubscriptionProvider(provider))

	for i := 0; i < 2; i++ {
		_, err := relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "twice@example.com"})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, provider.CallCount(), "the relay does not deduplicate")
}

func TestSubscriptionRelay_NoProvider(t *testing.T) {
	relay := NewSubscriptionRelay()

	_, err := relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "user@example.com"})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errs.HTTPStatus(err))
	assert.Error(t, relay.IsReady(context.Background()))
}

func TestSubscriptionRelay_PublishFailureDoesNotChangeResult(t *testing.T) {
	provider := mock.NewMockSubscriptionProvider()
	publisher := mock.NewMockMessagePublisher()
	publisher.SetError(errs.NewServiceUnavailable("NATS client is not ready"))

	relay := NewSubscriptionRelay(
		WithSubscriptionProvider(provider),
		WithPublisher(publisher),
	)

	result, err := relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "user@example.com"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.StatusCode)
}

func TestSubscriptionRelay_Timeout(t *testing.T) {
	relay := NewSubscriptionRelay(
		WithSubscriptionProvider(blockingProvider{}),
		WithTimeout(20*time.Millisecond),
	)

	start := time.Now()
	_, err := relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "user@example.com"})

	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, errs.HTTPStatus(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSubscriptionRelay_RecordsOutcomeMetric(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	provider := mock.NewMockSubscriptionProvider()
	relay := NewSubscriptionRelay(
		WithSubscriptionProvider(provider),
		WithMeterProvider(meterProvider),
	)

	_, _ = relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "user@example.com"})
	_, _ = relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: ""})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	outcomes := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "newsletter.subscriptions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				outcomes[outcome.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(1), outcomes["subscribed"])
	assert.Equal(t, int64(1), outcomes["rejected"])
}

// TestSubscriptionRelay_ConvertKit runs the relay against a stubbed provider over HTTP
func TestSubscriptionRelay_ConvertKit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, testAPIKey, body["api_key"])

		_, _ = w.Write([]byte(`{"subscription":{"id":123}}`))
	}))
	defer server.Close()

	cfg := convertkit.DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.FormID = testFormID
	cfg.APIKey = testAPIKey

	client, err := convertkit.NewClient(cfg)
	require.NoError(t, err)

	relay := NewSubscriptionRelay(
		WithSubscriptionProvider(client),
		WithFormID(cfg.FormID),
		WithTimeout(cfg.Timeout),
	)

	result, err := relay.Subscribe(context.Background(), &model.SubscriptionRequest{Email: "user@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusCreated, result.StatusCode)
	assert.JSONEq(t, `{"subscription":{"id":123}}`, string(result.Body))
	assert.NotContains(t, string(result.Body), testAPIKey)
	assert.Equal(t, "123", result.SubscriptionID)

	_, err = relay.Subscribe(context.Background(), &model.SubscriptionRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "invalid input never reaches the provider")
}
