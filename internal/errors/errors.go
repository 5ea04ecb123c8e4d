package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error type every handler pushes into the gin context.
// Status decides the HTTP response code, Message is user-facing,
// Internal keeps the original cause for logging only.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func newError(status int, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: err,
	}
}

// Entity or chain link absent.
func NotFound(message string, err error) *APIError {
	return newError(http.StatusNotFound, message, err)
}

// Ownership mismatch at the chain root.
func Forbidden(message string, err error) *APIError {
	return newError(http.StatusForbidden, message, err)
}

// Malformed identifier, invalid enum value, oversized or unsupported input.
func BadRequest(message string, err error) *APIError {
	return newError(http.StatusBadRequest, message, err)
}

// Duplicate unique value or non-empty container on delete.
func Conflict(message string, err error) *APIError {
	return newError(http.StatusConflict, message, err)
}

// Missing, invalid or expired token.
func Unauthorized(message string, err error) *APIError {
	return newError(http.StatusUnauthorized, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return newError(http.StatusUnprocessableEntity, message, err)
}

// Storage or messaging collaborator failure.
func BadGateway(message string, err error) *APIError {
	return newError(http.StatusBadGateway, message, err)
}

func Internal(err error) *APIError {
	return newError(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError turns go-playground validation failures
// into a readable 400 message.
func NewValidationError(err error) *APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return BadRequest("Validation failed: "+strings.Join(fields, ", "), err)
	}
	return BadRequest("Invalid request body", err)
}
