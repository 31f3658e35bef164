package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

// APIError is the error body returned by every endpoint of the service.
// It implements the error interface and is used both by the server
// (to write HTTP responses) and by the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is a human-readable description of the error
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is an *APIError with the same status and message.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// WithDetails returns a copy of e carrying field validation messages.
func (e *APIError) WithDetails(details map[string]string) *APIError {
	return &APIError{
		StatusCode: e.StatusCode,
		Message:    e.Message,
		Details:    details,
	}
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

var (
	// ErrUnauthenticated is returned when the request carries no usable session reference.
	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Unauthorized access please login",
	}

	// ErrInvalidCredentials is returned when sign-in fails for any reason.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid credentials",
	}

	// ErrSessionExpired is returned when the access token is stale and the
	// stored refresh token can no longer renew it.
	ErrSessionExpired = &APIError{
		StatusCode: http.StatusForbidden,
		Message:    "Expired refresh token. login again!",
	}

	// ErrInvalidCode is returned for a wrong, expired or already redeemed verification code.
	ErrInvalidCode = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "The code is not valid!",
	}

	// ErrEmailInUse is returned when signing up with a registered email.
	ErrEmailInUse = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "The email is already in use",
	}

	// ErrAlreadyVerified is returned when requesting a code for a verified email.
	ErrAlreadyVerified = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Already verified",
	}

	// ErrInvalidRequest is returned when the request body fails to parse or validate.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request",
	}

	// ErrFileNotFound is returned when a requested photo does not exist.
	ErrFileNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Message:    "File not found",
	}

	// ErrMethodNotAllowed is returned when the HTTP method is not allowed.
	ErrMethodNotAllowed = &APIError{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method not allowed",
	}

	// ErrInternal is returned when the service hit an unexpected failure.
	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
)

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
