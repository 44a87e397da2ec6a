// Package errors provides standardized error handling for the sync API and its vendor clients.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Vendor boundary
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	ErrCodeVendor    ErrorCode = "VENDOR_ERROR"
	ErrCodeParse     ErrorCode = "PARSE_ERROR"

	// Request boundary
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeActionDisabled   ErrorCode = "ACTION_DISABLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	HTTPCode  int                    `json:"httpCode,omitempty"` // vendor status, 0 when the request never completed
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTransportError creates a retryable error for a request that never reached the vendor.
func NewTransportError(vendor string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("%s request failed: %s", vendor, err.Error()),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVendorError creates an error for a non-2xx vendor response.
func NewVendorError(vendor string, httpCode int, vendorMessage string) *StandardError {
	msg := fmt.Sprintf("%s API error (HTTP %d)", vendor, httpCode)
	if vendorMessage != "" {
		msg += ": " + vendorMessage
	}
	return &StandardError{
		Code:      ErrCodeVendor,
		Message:   msg,
		Details:   vendorMessage,
		Retryable: httpCode == http.StatusTooManyRequests || httpCode >= 500,
		HTTPCode:  httpCode,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable error for a vendor body that is not valid JSON.
func NewParseError(vendor string, httpCode int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   fmt.Sprintf("Failed to parse %s response JSON", vendor),
		Details:   err.Error(),
		Retryable: false,
		HTTPCode:  httpCode,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidActionError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAction,
		Message:   "Invalid action",
		Details:   fmt.Sprintf("action: %q", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidBody,
		Message:   "Invalid JSON body",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   fmt.Sprintf("method: %s", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewActionDisabledError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActionDisabled,
		Message:   "Action disabled by configuration",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected fault. Details stay server-side.
func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to the status returned by the sync endpoint.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeTransport:        http.StatusBadGateway,
	ErrCodeVendor:           http.StatusBadGateway,
	ErrCodeParse:            http.StatusBadGateway,
	ErrCodeValidationFailed: http.StatusBadRequest,
	ErrCodeInvalidAction:    http.StatusBadRequest,
	ErrCodeInvalidBody:      http.StatusBadRequest,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeActionDisabled:   http.StatusServiceUnavailable,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err.Error())
}

// MessageOf returns the caller-facing message of err. Unknown errors collapse to the
// generic internal message.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return Normalize(err).Message
}

// ItemReason is the per-item failure text of a batch. Standard errors give their message;
// context and throttle errors keep their own text.
func ItemReason(err error) string {
	if err == nil {
		return ""
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Message
	}
	return err.Error()
}

// IsVendorFailure reports whether err came from the vendor boundary.
func IsVendorFailure(err error) bool {
	stdErr := Normalize(err)
	if stdErr == nil {
		return false
	}
	switch stdErr.Code {
	case ErrCodeTransport, ErrCodeVendor, ErrCodeParse:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeTransport || code == ErrCodeVendor || code == ErrCodeParse:
		return "VENDOR"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || code == ErrCodeMethodNotAllowed:
		return "VALIDATION"
	case code == ErrCodeActionDisabled:
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
