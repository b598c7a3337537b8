package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("exists"), ErrorTypeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("no token"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("denied"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("nope"), ErrorTypeBadRequest, http.StatusBadRequest},
		{"unavailable", NewUnavailableError("db down"), ErrorTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestUnavailableDistinctFromForbidden(t *testing.T) {
	transient := NewUnavailableError("subscription lookup failed")
	denial := NewForbiddenError("upgrade required")

	assert.True(t, IsUnavailableError(transient))
	assert.False(t, IsForbiddenError(transient))
	assert.True(t, IsForbiddenError(denial))
	assert.False(t, IsUnavailableError(denial))
}

func TestGetAppErrorUnwrapsWrappedErrors(t *testing.T) {
	inner := NewUnavailableError("usage count failed", "mysql timeout")
	wrapped := fmt.Errorf("check tool access: %w", inner)

	got := GetAppError(wrapped)
	assert.NotNil(t, got)
	assert.Equal(t, ErrorTypeUnavailable, got.Type)
	assert.True(t, IsUnavailableError(wrapped))
}

func TestGetAppErrorPlainError(t *testing.T) {
	assert.Nil(t, GetAppError(errors.New("plain")))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestErrorStringIncludesDetails(t *testing.T) {
	err := NewValidationError("invalid tier", "got: cosmic")
	assert.Contains(t, err.Error(), "invalid tier")
	assert.Contains(t, err.Error(), "got: cosmic")
}
