// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// DecodeSubscriptionRequest parses an inbound JSON body.
// Empty bodies and anything that is not a JSON object are validation errors.
func DecodeSubscriptionRequest(body []byte) (*model.SubscriptionRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errs.NewValidation("request body is required")
	}

	var request model.SubscriptionRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, errs.NewValidation("request body must be a JSON object", err)
	}

	return &request, nil
}

// EncodeResult renders a relayed subscription as status and body
func EncodeResult(result *model.SubscriptionResult) (int, []byte) {
	if result == nil || len(result.Body) == 0 {
		return http.StatusCreated, []byte("{}")
	}
	return result.StatusCode, result.Body
}

// EncodeError renders err as status and {"error": "..."} body.
// Only the public message is written so wrapped transport details stay in the logs.
func EncodeError(ctx context.Context, err error) (int, []byte) {
	status := errs.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}

	body, marshalErr := json.Marshal(errorResponse{Error: errs.PublicMessage(err)})
	if marshalErr != nil {
		return http.StatusInternalServerError, []byte(`{"error":"internal server error"}`)
	}
	return status, body
}
