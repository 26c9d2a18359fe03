// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"net/http"
)

const internalServerErrorMessage = "internal server error"

// HTTPStatus maps an error to the HTTP status code reported to callers.
// Errors that are not one of the package types map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validation         Validation
		notFound           NotFound
		conflict           Conflict
		unauthorized       Unauthorized
		tooManyRequests    TooManyRequests
		serviceUnavailable ServiceUnavailable
		badGateway         BadGateway
		gatewayTimeout     GatewayTimeout
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &tooManyRequests):
		return http.StatusTooManyRequests
	case errors.As(err, &serviceUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &badGateway):
		return http.StatusBadGateway
	case errors.As(err, &gatewayTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be sent back to a caller.
// Only the message of the typed error is exposed so wrapped causes, such as
// transport details or raw provider payloads, never leave the service.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var withMessage interface {
		error
		Message() string
	}
	if !errors.As(err, &withMessage) || withMessage.Message() == "" {
		return internalServerErrorMessage
	}
	return withMessage.Message()
}
