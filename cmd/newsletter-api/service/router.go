// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

// NewRouter mounts the relay endpoints with the service middleware chain.
// Probes bypass rate and body limits.
func NewRouter(svc *NewsletterService, config ServerConfig) http.Handler {
	limiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)

	subscribe := chain(http.HandlerFunc(svc.Subscribe),
		middleware.RateLimitMiddleware(limiter),
		middleware.BodyLimitMiddleware(config.BodyLimitBytes),
	)

	mux := http.NewServeMux()
	mux.Handle("POST /subscribe", subscribe)
	mux.Handle("POST /api/subscribe", subscribe)
	mux.HandleFunc("GET /livez", svc.Livez)
	mux.HandleFunc("GET /readyz", svc.Readyz)

	handler := chain(mux,
		middleware.RequestIDMiddleware(),
		middleware.RecoverMiddleware(),
	)

	return otelhttp.NewHandler(handler, constants.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// chain wraps h so the first middleware is the outermost
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
