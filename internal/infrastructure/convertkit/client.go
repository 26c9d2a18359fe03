// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package convertkit implements the subscription provider on top of the ConvertKit v3 forms API.
package convertkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/redaction"
)

const userAgent = "lfx-v2-newsletter-service"

// userAgentRoundTripper tags every outbound request with the service user agent
type userAgentRoundTripper struct{}

// RoundTrip sets the User-Agent header and forwards the request
func (userAgentRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return next(req)
}

// requestLogRoundTripper logs provider calls without their bodies
type requestLogRoundTripper struct{}

// RoundTrip logs the outcome of one provider round trip
func (requestLogRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	start := time.Now()
	resp, err := next(req)

	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		slog.DebugContext(req.Context(), "newsletter provider round trip failed", append(attrs, "error", err)...)
		return resp, err
	}

	slog.DebugContext(req.Context(), "newsletter provider round trip", append(attrs, "status_code", resp.StatusCode)...)
	return resp, nil
}

// Client talks to the ConvertKit forms API
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

var _ port.SubscriptionProvider = (*Client)(nil)

// NewClient creates a new ConvertKit client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid newsletter provider configuration: %w", err)
	}

	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultConfig().APIVersion
	}

	httpConfig := httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
		RetryBackoff: true,
		MaxDelay:     cfg.Timeout,
	}

	client := &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpConfig),
	}
	client.httpClient.AddRoundTripper(userAgentRoundTripper{})
	client.httpClient.AddRoundTripper(requestLogRoundTripper{})

	slog.InfoContext(context.Background(), "newsletter provider client initialized",
		"base_url", cfg.BaseURL,
		"form_id", cfg.FormID,
		"timeout", cfg.Timeout.String(),
		"max_retries", cfg.MaxRetries,
	)

	return client, nil
}

// Subscribe registers the request's address with the configured form.
// The API key travels in the JSON body only and is scrubbed from anything returned.
func (c *Client) Subscribe(ctx context.Context, request *model.SubscriptionRequest) (*port.ProviderResponse, error) {
	if request == nil {
		return nil, errors.NewValidation("subscription request is required")
	}
	if !c.config.HasCredentials() {
		return nil, errors.NewUnexpected("newsletter provider is not configured")
	}

	reqURL, err := c.subscribeURL()
	if err != nil {
		return nil, errors.NewUnexpected("newsletter provider URL is invalid", err)
	}

	payload, err := json.Marshal(subscribeRequest{
		APIKey:    c.config.APIKey,
		Email:     request.Email,
		FirstName: request.FirstName,
		Tags:      request.Tags,
	})
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode subscription request", err)
	}

	slog.InfoContext(ctx, "subscribing address with newsletter provider",
		log.Email(request.Email),
		"form_id", c.config.FormID,
	)

	headers := map[string]string{
		constants.ContentTypeHeader: constants.ContentTypeJSON,
	}

	resp, err := c.httpClient.Request(ctx, http.MethodPost, reqURL, bytes.NewReader(payload), headers)
	if err != nil {
		return nil, MapHTTPError(ctx, err, c.config.APIKey)
	}

	if !gjson.ValidBytes(resp.Body) {
		slog.ErrorContext(ctx, "newsletter provider returned a malformed body",
			"status_code", resp.StatusCode,
			"body_bytes", len(resp.Body),
		)
		return nil, errors.NewBadGateway("newsletter provider returned a malformed response")
	}

	body := redaction.Scrub(resp.Body, c.config.APIKey)
	subscriptionID := gjson.GetBytes(body, subscriptionIDPath).String()

	slog.InfoContext(ctx, "newsletter provider accepted subscription",
		"status_code", resp.StatusCode,
		"subscription_id", subscriptionID,
	)

	return &port.ProviderResponse{
		StatusCode:     resp.StatusCode,
		Body:           body,
		SubscriptionID: subscriptionID,
	}, nil
}

// IsReady reports whether credentials are configured.
// It makes no network call so probes never spend provider quota.
func (c *Client) IsReady(ctx context.Context) error {
	if !c.config.HasCredentials() {
		return fmt.Errorf("newsletter provider credentials are not configured")
	}
	return nil
}

// Name identifies the provider in readiness reports
func (c *Client) Name() string {
	return constants.SourceConvertKit
}

// Ping implements the health checker contract
func (c *Client) Ping(ctx context.Context) error {
	return c.IsReady(ctx)
}

func (c *Client) subscribeURL() (string, error) {
	return url.JoinPath(c.config.BaseURL, c.config.APIVersion, "forms", c.config.FormID, "subscribe")
}
