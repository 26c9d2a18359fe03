// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package httpclient provides an HTTP client with retries and request middleware.
package httpclient

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RoundTripper interface for request middleware
type RoundTripper interface {
	RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error)
}

// RoundTripperFunc adapts a function to the RoundTripper interface
type RoundTripperFunc func(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error)

// RoundTrip calls f(req, next)
func (f RoundTripperFunc) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	return f(req, next)
}

// Client represents a generic HTTP client with retry logic and middleware support
type Client struct {
	config        Config
	httpClient    *http.Client
	roundTrippers []RoundTripper
}

// Request represents an HTTP request configuration
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// StatusError is returned for any response with a status code of 400 or above.
// The response body is kept verbatim so callers can inspect provider error payloads.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// IsTimeout reports whether err was caused by a deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Do executes an HTTP request with retry logic
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	// the body is buffered once so that every attempt sends the same bytes
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt)

			slog.DebugContext(ctx, "retrying request",
				"attempt", attempt+1,
				"max_attempts", c.config.MaxRetries+1,
				"delay_ms", delay.Milliseconds(),
			)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("request cancelled: %w", errors.Join(ctx.Err(), lastErr))
			case <-time.After(delay):
			}
		}

		response, err := c.doRequest(ctx, req, payload)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !c.shouldRetry(ctx, err) {
			break
		}
	}

	slog.DebugContext(ctx, "request failed", "error", lastErr)

	return nil, lastErr
}

// retryDelay calculates the delay before the given attempt
func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.config.RetryDelay
	if !c.config.RetryBackoff {
		return delay
	}

	// Clean doubling with overflow protection
	for i := 1; i < attempt && delay < c.config.MaxDelay/2; i++ {
		delay *= 2
	}
	if delay > c.config.MaxDelay {
		delay = c.config.MaxDelay
	}

	// Add jitter (25% random variance)
	maxJitter := int64(delay / 4)
	if maxJitter > 0 {
		jitterBig, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
		if err == nil {
			delay = delay + time.Duration(jitterBig.Int64())
		}
	}
	return delay
}

// doRequest performs a single HTTP request with RoundTripper middleware
func (c *Client) doRequest(ctx context.Context, reqConfig Request, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	httpReq.Header.Set("Accept", "application/json")

	// Set custom headers
	for key, value := range reqConfig.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.executeRoundTripperChain(httpReq, 0)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	// Check for HTTP errors
	if resp.StatusCode >= http.StatusBadRequest {
		return response, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return response, nil
}

// shouldRetry determines if a request should be retried based on the error
func (c *Client) shouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	// Retry on network-related errors
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Request performs an HTTP request with the specified verb
func (c *Client) Request(ctx context.Context, verb, url string, body io.Reader, headers map[string]string) (*Response, error) {
	req := Request{
		Method:  verb,
		URL:     url,
		Headers: headers,
		Body:    body,
	}
	return c.Do(ctx, req)
}

// executeRoundTripperChain executes the RoundTripper middleware chain
func (c *Client) executeRoundTripperChain(req *http.Request, index int) (*http.Response, error) {
	if index >= len(c.roundTrippers) {
		// Base case: execute the actual HTTP request
		return c.httpClient.Do(req)
	}

	next := func(req *http.Request) (*http.Response, error) {
		return c.executeRoundTripperChain(req, index+1)
	}

	return c.roundTrippers[index].RoundTrip(req, next)
}

// AddRoundTripper adds a middleware RoundTripper to the client.
// This method is not safe for concurrent use and should only be called
// during client initialization before making any requests.
func (c *Client) AddRoundTripper(rt RoundTripper) {
	c.roundTrippers = append(c.roundTrippers, rt)
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config Config) *Client {
	// Set sensible default for MaxDelay if not configured
	if config.MaxDelay == 0 {
		config.MaxDelay = 30 * time.Second
	}

	transport := http.DefaultTransport
	if !config.DisableTracing {
		transport = otelhttp.NewTransport(transport)
	}

	return &Client{
		config:        config,
		roundTrippers: make([]RoundTripper, 0),
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}
