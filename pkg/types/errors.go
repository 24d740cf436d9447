package types

import (
	"errors"
	"fmt"
)

// ErrorKind represents different categories of errors
type ErrorKind string

const (
	ErrorKindValidation     ErrorKind = "validation"
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindForbidden      ErrorKind = "forbidden"
	ErrorKindExpired        ErrorKind = "expired"
	ErrorKindConflict       ErrorKind = "conflict"
	ErrorKindDelivery       ErrorKind = "delivery"
	ErrorKindInternal       ErrorKind = "internal"
)

// HeavenError represents a structured error in the Health Heaven system
type HeavenError struct {
	Kind    ErrorKind              `json:"kind"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *HeavenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *HeavenError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindValidation,
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindAuthentication,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindNotFound,
		Code:    code,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindForbidden,
		Code:    code,
		Message: message,
	}
}

// NewExpiredError creates a new expiry error
func NewExpiredError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindExpired,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindConflict,
		Code:    code,
		Message: message,
	}
}

// NewDeliveryError creates a new delivery error. Delivery failures are kept
// separate from verification failures so a client is never told a code was
// invalid when in fact it was never sent.
func NewDeliveryError(code, message string, cause error) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindDelivery,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *HeavenError {
	return &HeavenError{
		Kind:    ErrorKindInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsKind reports whether err is a HeavenError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var he *HeavenError
	if errors.As(err, &he) {
		return he.Kind == kind
	}
	return false
}

// Common error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeMissingToken        = "MISSING_TOKEN"
	ErrCodeInvalidToken        = "INVALID_TOKEN"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	ErrCodePostNotFound        = "POST_NOT_FOUND"
	ErrCodeSlotTaken           = "SLOT_TAKEN"
	ErrCodeBadCredentials      = "BAD_CREDENTIALS"
	ErrCodeAccountInactive     = "ACCOUNT_INACTIVE"
	ErrCodeOTPNotFound         = "OTP_NOT_FOUND"
	ErrCodeOTPExpired          = "OTP_EXPIRED"
	ErrCodeOTPMismatch         = "OTP_MISMATCH"
	ErrCodeOTPDelivery         = "OTP_DELIVERY_FAILED"
	ErrCodeResetInvalid        = "INVALID_RESET_CODE"
	ErrCodeResetDelivery       = "RESET_DELIVERY_FAILED"
	ErrCodeDuplicateAccount    = "DUPLICATE_ACCOUNT"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)
