package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError_UnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrStoreClosed)

	appErr := GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Same(t, ErrStoreClosed, appErr)
	assert.True(t, IsAppError(err))
}

func TestGetAppError_HidesUnknownErrors(t *testing.T) {
	appErr := GetAppError(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("pin", "PIN must be at least 4 characters")

	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
	assert.Equal(t, "pin", err.Errors[0].Field)
}
