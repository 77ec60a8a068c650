package dto

import "time"

// ValidationError is one per-field failure inside an error response.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the single envelope for every failure surfaced to a
// client. Optional fields are omitted from the JSON rather than rendered as
// null; validErrors is only present for request-validation failures.
type ErrorResponse struct {
	ErrorCode   int               `json:"errorCode"`
	Message     string            `json:"message,omitempty"`
	Time        time.Time         `json:"time"`
	ValidErrors []ValidationError `json:"validErrors,omitempty"`
}

// NewErrorResponse builds a fresh envelope stamped with the current time.
func NewErrorResponse(errorCode int, message string) ErrorResponse {
	return ErrorResponse{ErrorCode: errorCode, Message: message, Time: time.Now()}
}

// AddValidationError appends one field violation, preserving append order.
func (e *ErrorResponse) AddValidationError(field, message string) {
	e.ValidErrors = append(e.ValidErrors, ValidationError{Field: field, Message: message})
}
