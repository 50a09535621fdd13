package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidEmail is returned when the email fails the format check.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword is returned when the password is below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmptyText is returned when task text is empty after trimming.
	ErrEmptyText = errors.New("task text must not be empty")
	// ErrInvalidToken covers a bad signature, an unknown user, and a revoked
	// token alike.
	ErrInvalidToken = errors.New("invalid or missing token")
	// ErrTaskNotFound is returned when a task is absent or owned by someone
	// else; the two cases are deliberately indistinguishable.
	ErrTaskNotFound = errors.New("task not found")
)

// ErrorResponse represents a standardized error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Envelope is the uniform response body. Error marshals as null on success.
type Envelope struct {
	Data  interface{}    `json:"data"`
	Error *ErrorResponse `json:"error"`
}

// OK wraps a payload in a success envelope.
func OK(data interface{}) Envelope {
	return Envelope{Data: data}
}

// Fail wraps an error payload in a failure envelope with an empty data object.
func Fail(resp ErrorResponse) Envelope {
	return Envelope{Data: map[string]interface{}{}, Error: &resp}
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Duplicate email maps to
// 400 rather than 409, keeping the original API's convention.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrInvalidEmail:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_EMAIL")
	case ErrWeakPassword:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WEAK_PASSWORD")
	case ErrDuplicateEmail:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_EMAIL")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case ErrEmptyText:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_TEXT")
	case ErrInvalidToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case ErrTaskNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
