// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler writes standardized error responses for the sync endpoint
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError logs err and writes the JSON error body. When partial is non-nil it is
// written as the body instead, so operations can return what they gathered before failing.
// Returns the status written.
func (h *ErrorHandler) HandleRequestError(w http.ResponseWriter, requestID, action string, err error, partial interface{}) int {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(requestID, action, status, stdErr)

	if partial != nil {
		WriteJSON(w, status, partial)
		return status
	}

	// Internal details never leave the server.
	WriteJSON(w, status, map[string]string{"error": stdErr.Message})
	return status
}

func (h *ErrorHandler) logError(requestID, action string, status int, stdErr *StandardError) {
	fields := map[string]interface{}{
		"requestId":     requestID,
		"action":        action,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if stdErr.HTTPCode != 0 {
		fields["vendorHttpCode"] = stdErr.HTTPCode
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("Request failed", fields)
}

// WriteJSON writes body as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
