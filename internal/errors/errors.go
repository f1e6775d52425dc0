package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRiderNotFound is returned when no rider has the requested code.
	ErrRiderNotFound = errors.New("rider not found")
	// ErrAdminNotFound is returned when no admin has the requested id.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrForbidden is returned when the caller's role may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest is returned when a required field is missing or malformed.
	ErrBadRequest = errors.New("bad request")
	// ErrConflict is returned when a write collides with a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrDuplicateCode is returned when a rider code is already taken.
	ErrDuplicateCode = fmt.Errorf("%w: rider code already in use", ErrConflict)
	// ErrEmailTaken is returned when an admin email is already registered.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)
	// ErrCodeSpaceExhausted is returned when no free rider code was found within the retry budget.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique rider code")
)

// BadRequest wraps ErrBadRequest with a field-level message.
func BadRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrRiderNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRiderNotFound.Error(), "RIDER_NOT_FOUND")
	case errors.Is(err, ErrAdminNotFound):
		return NewHTTPError(http.StatusNotFound, ErrAdminNotFound.Error(), "ADMIN_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrBadRequest):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrCodeSpaceExhausted):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "CODE_SPACE_EXHAUSTED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
