// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP middleware of the newsletter service.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
)

const maxRequestIDLength = 128

// RequestIDMiddleware propagates the caller's X-Request-Id or generates a new one.
// The id is echoed in the response and added to every log line of the request.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), constants.RequestIDContextKey, requestID)
			ctx = log.AppendCtx(ctx, slog.String("request_id", requestID))
			w.Header().Set(constants.RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request id stored by RequestIDMiddleware
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
