// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package convertkit

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/redaction"
)

// MapHTTPError maps httpclient errors to domain errors with proper context logging.
// secret is scrubbed from any provider text that ends up in the returned error.
func MapHTTPError(ctx context.Context, err error, secret string) error {
	if err == nil {
		return nil
	}

	var statusErr *httpclient.StatusError
	if stderrors.As(err, &statusErr) {
		message := ProviderMessage(statusErr.Body, secret)

		slog.WarnContext(ctx, "newsletter provider HTTP error occurred",
			"status_code", statusErr.StatusCode,
			"message", message,
		)

		switch statusErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return errors.NewValidation(orDefault(message, "subscription rejected by newsletter provider"), err)
		case http.StatusConflict:
			return errors.NewConflict(orDefault(message, "address is already subscribed"), err)
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			slog.ErrorContext(ctx, "newsletter provider rejected relay credentials or form",
				"status_code", statusErr.StatusCode,
				log.PriorityCritical(),
			)
			return errors.NewBadGateway("newsletter provider rejected the relay configuration", err)
		case http.StatusTooManyRequests:
			return errors.NewServiceUnavailable("newsletter provider rate limited", err)
		}

		if statusErr.StatusCode >= http.StatusInternalServerError {
			return errors.NewBadGateway("newsletter provider unavailable", err)
		}
		if statusErr.StatusCode >= http.StatusBadRequest {
			return errors.NewValidation(orDefault(message,
				fmt.Sprintf("subscription rejected by newsletter provider (status %d)", statusErr.StatusCode)), err)
		}

		slog.ErrorContext(ctx, "unexpected newsletter provider HTTP status code",
			"status_code", statusErr.StatusCode,
		)
		return errors.NewUnexpected("newsletter provider API error", err)
	}

	if httpclient.IsTimeout(err) {
		slog.ErrorContext(ctx, "newsletter provider request timed out", "error", err)
		return errors.NewGatewayTimeout("newsletter provider timed out", err)
	}

	if stderrors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "newsletter provider request cancelled", "error", err)
		return errors.NewServiceUnavailable("subscription request cancelled", err)
	}

	slog.ErrorContext(ctx, "newsletter provider request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errors.NewBadGateway("newsletter provider unreachable", err)
}

// ProviderMessage extracts the human readable error text of a provider payload.
// It looks at "error" then "message" and returns "" when neither is a non empty string.
func ProviderMessage(body []byte, secret string) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	for _, path := range []string{errorPath, messagePath} {
		value := gjson.GetBytes(body, path)
		if value.Type != gjson.String {
			continue
		}
		if text := strings.TrimSpace(value.String()); text != "" {
			return redaction.ScrubString(text, secret)
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
