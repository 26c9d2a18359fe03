// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handler provides the Lambda function implementation of the relay.
package handler

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	apiservice "github.com/linuxfoundation/lfx-v2-newsletter-service/cmd/newsletter-api/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
)

const (
	methodNotAllowedBody = `{"error":"method not allowed"}`
	maxRequestIDLength   = 128
)

// Handler adapts API Gateway HTTP API events to the subscription relay
type Handler struct {
	relay     service.SubscriptionRelay
	bodyLimit int64
}

// New creates a Handler relaying through relay. A bodyLimit of zero or less disables the size check.
func New(relay service.SubscriptionRelay, bodyLimit int64) *Handler {
	return &Handler{relay: relay, bodyLimit: bodyLimit}
}

// Subscribe relays the address in the event body and renders the same responses as the HTTP server
func (h *Handler) Subscribe(ctx context.Context, req events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
	requestID := requestIDFor(req)
	ctx = context.WithValue(ctx, constants.RequestIDContextKey, requestID)
	ctx = log.AppendCtx(ctx, slog.String("request_id", requestID))

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "panic recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
				log.PriorityCritical(),
			)
			resp = response(requestID, http.StatusInternalServerError, []byte(`{"error":"internal server error"}`))
			err = nil
		}
	}()

	if method := req.RequestContext.HTTP.Method; method != "" && method != http.MethodPost {
		return response(requestID, http.StatusMethodNotAllowed, []byte(methodNotAllowedBody)), nil
	}

	body, decodeErr := eventBody(req)
	if decodeErr != nil {
		return h.failure(ctx, requestID, decodeErr), nil
	}
	if h.bodyLimit > 0 && int64(len(body)) > h.bodyLimit {
		return h.failure(ctx, requestID, errs.NewValidation("request body too large")), nil
	}

	request, decodeErr := apiservice.DecodeSubscriptionRequest(body)
	if decodeErr != nil {
		return h.failure(ctx, requestID, decodeErr), nil
	}

	result, relayErr := h.relay.Subscribe(ctx, request)
	if relayErr != nil {
		return h.failure(ctx, requestID, relayErr), nil
	}

	status, payload := apiservice.EncodeResult(result)
	return response(requestID, status, payload), nil
}

func (h *Handler) failure(ctx context.Context, requestID string, err error) events.APIGatewayV2HTTPResponse {
	status, payload := apiservice.EncodeError(ctx, err)
	return response(requestID, status, payload)
}

// eventBody returns the raw request body, decoding it when API Gateway base64 encoded it
func eventBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, errs.NewValidation("request body is not valid base64", err)
	}
	return body, nil
}

// requestIDFor prefers the caller's X-Request-Id, then the API Gateway request id
func requestIDFor(req events.APIGatewayV2HTTPRequest) string {
	for name, value := range req.Headers {
		if strings.EqualFold(name, constants.RequestIDHeader) && value != "" && len(value) <= maxRequestIDLength {
			return value
		}
	}
	if req.RequestContext.RequestID != "" {
		return req.RequestContext.RequestID
	}
	return uuid.New().String()
}

func response(requestID string, status int, body []byte) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			constants.ContentTypeHeader: constants.ContentTypeJSON,
			constants.RequestIDHeader:   requestID,
		},
		Body: string(body),
	}
}
