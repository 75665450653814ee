// Package errors provides standardized error handling for the field-visit API.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Connectivity / infrastructure
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeQueryFailed      ErrorCode = "QUERY_FAILED"

	// Validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPayload   ErrorCode = "INVALID_PAYLOAD"

	// Authentication / authorization
	ErrCodeAccountNotFound    ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrCodeAccountDisabled    ErrorCode = "ACCOUNT_DISABLED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"

	// Records
	ErrCodeVisitNotFound        ErrorCode = "VISIT_NOT_FOUND"
	ErrCodeVisitWriteFailed     ErrorCode = "VISIT_WRITE_FAILED"
	ErrCodeActivityAppendFailed ErrorCode = "ACTIVITY_APPEND_FAILED"
	ErrCodeDuplicateAccount     ErrorCode = "DUPLICATE_ACCOUNT"

	// Media / notifications
	ErrCodeUploadFailed           ErrorCode = "UPLOAD_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error. Message is safe to
// render to the user; Details carries the underlying cause for logs.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewConnectionFailedError creates a retryable connectivity error. The user
// message is deliberately generic.
func NewConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConnectionFailed,
		Message:   "Connection failed. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryFailedError creates a retryable store query error.
func NewQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryFailed,
		Message:   "Connection failed. Please try again.",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable validation error that
// blocks the submission.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Please correct the highlighted fields.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPayloadError creates a non-retryable request parse error.
func NewInvalidPayloadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Invalid request body.",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAccountNotFoundError creates a non-retryable login error.
func NewAccountNotFoundError(identifier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccountNotFound,
		Message:   "No account found for the given email or mobile.",
		Details:   fmt.Sprintf("identifier: %s", identifier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAccessDeniedError creates a non-retryable role-mismatch error.
func NewAccessDeniedError(requested, actual string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccessDenied,
		Message:   "Access denied for this portal.",
		Details:   fmt.Sprintf("requested role: %s, account role: %s", requested, actual),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAccountDisabledError creates a non-retryable inactive-account error.
func NewAccountDisabledError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccountDisabled,
		Message:   "This account has been deactivated. Contact your administrator.",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialsError creates a non-retryable wrong-password error.
func NewInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Incorrect password.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionExpiredError creates a non-retryable session error.
func NewSessionExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionExpired,
		Message:   "Session expired. Please sign in again.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVisitNotFoundError creates a non-retryable missing-record error.
func NewVisitNotFoundError(visitID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVisitNotFound,
		Message:   "Visit not found.",
		Details:   fmt.Sprintf("visitId: %s", visitID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVisitWriteFailedError creates a retryable visit write error.
func NewVisitWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVisitWriteFailed,
		Message:   "Could not save the visit. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityAppendFailedError creates an error for a failed activity log
// append. The associated visit write is already committed and is never
// rolled back.
func NewActivityAppendFailedError(visitID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityAppendFailed,
		Message:   "Visit saved, but its activity log entry failed.",
		Details:   fmt.Sprintf("visitId: %s, error: %s", visitID, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"visitId": visitID},
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateAccountError creates a non-retryable duplicate-signup error.
func NewDuplicateAccountError(identifier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateAccount,
		Message:   "An account with this email or mobile already exists.",
		Details:   fmt.Sprintf("identifier: %s", identifier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable photo upload error.
func NewUploadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "Photo upload failed. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification delivery error.
// Reminder failures never block the visit write.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Reminder could not be sent.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
