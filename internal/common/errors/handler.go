package errors

import (
	"net/http"
	"time"
)

// AsStandard normalizes any error to a StandardError so every boundary
// failure renders the same JSON shape.
func AsStandard(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Something went wrong. Please try again.",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case ErrCodeInvalidCredentials, ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case ErrCodeAccessDenied, ErrCodeAccountDisabled:
		return http.StatusForbidden
	case ErrCodeAccountNotFound, ErrCodeVisitNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateAccount:
		return http.StatusConflict
	case ErrCodeConnectionFailed, ErrCodeQueryFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
