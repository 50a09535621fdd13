package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid email", ErrInvalidEmail, http.StatusBadRequest, "INVALID_EMAIL"},
		{"weak password", ErrWeakPassword, http.StatusBadRequest, "WEAK_PASSWORD"},
		{"duplicate email", ErrDuplicateEmail, http.StatusBadRequest, "DUPLICATE_EMAIL"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
		{"empty text", ErrEmptyText, http.StatusBadRequest, "EMPTY_TEXT"},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"task not found", ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND"},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestEnvelope_JSONShape(t *testing.T) {
	ok, err := json.Marshal(OK(map[string]string{"hello": "world"}))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data":{"hello":"world"},"error":null}`, string(ok))

	fail, err := json.Marshal(Fail(ErrorResponse{Error: "task not found", Code: "TASK_NOT_FOUND"}))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data":{},"error":{"error":"task not found","code":"TASK_NOT_FOUND"}}`, string(fail))
}
