// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the newsletter relay HTTP endpoints and their wiring.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
)

const relayPingerName = "newsletter-provider"

// relayPinger reports the relay's readiness to the health checker
type relayPinger struct {
	relay service.SubscriptionRelay
}

func (p relayPinger) Name() string {
	return relayPingerName
}

func (p relayPinger) Ping(ctx context.Context) error {
	return p.relay.IsReady(ctx)
}

// NewsletterService serves the relay endpoints
type NewsletterService struct {
	relay  service.SubscriptionRelay
	readyz http.Handler
}

// NewNewsletterService returns the HTTP endpoints backed by relay.
// The readiness probe checks the relay plus any extra pingers.
func NewNewsletterService(relay service.SubscriptionRelay, pingers ...health.Pinger) *NewsletterService {
	deps := append([]health.Pinger{relayPinger{relay: relay}}, pingers...)
	return &NewsletterService{
		relay:  relay,
		readyz: health.Handler(health.NewChecker(deps...)),
	}
}

// Subscribe relays the posted address to the newsletter provider
func (s *NewsletterService) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, errs.NewValidation("request body too large", err))
			return
		}
		writeError(w, r, errs.NewValidation("unable to read request body", err))
		return
	}

	request, err := DecodeSubscriptionRequest(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.relay.Subscribe(ctx, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, payload := EncodeResult(result)
	writeJSON(w, status, payload)
}

// Livez implements the livez endpoint for liveness probes.
func (s *NewsletterService) Livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	w.Header().Set(constants.ContentTypeHeader, "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz implements the readyz endpoint for readiness probes.
func (s *NewsletterService) Readyz(w http.ResponseWriter, r *http.Request) {
	s.readyz.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := EncodeError(r.Context(), err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
