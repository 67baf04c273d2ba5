package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorMessagePrecedence(t *testing.T) {
	cause := errors.New("unexpected EOF")
	withCause := NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, cause)
	require.Equal(t, "unexpected EOF", withCause.Error())

	withoutCause := NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, nil)
	require.Equal(t, "invalid payload", withoutCause.Error())

	var nilErr *AppError
	require.Empty(t, nilErr.Error())
	require.NoError(t, nilErr.Unwrap())
}

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	appErr := NewAppError("INTERNAL", "something broke", http.StatusInternalServerError, cause)
	require.ErrorIs(t, appErr, cause)

	wrapped := fmt.Errorf("handler: %w", appErr)
	var target *AppError
	require.True(t, errors.As(wrapped, &target))
	require.Equal(t, "INTERNAL", target.Code)
}

func TestIsAppError(t *testing.T) {
	appErr := NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, nil)
	require.True(t, IsAppError(appErr))
	require.True(t, IsAppError(fmt.Errorf("wrapped: %w", appErr)))
	require.False(t, IsAppError(errors.New("plain")))
	require.False(t, IsAppError(nil))
}

func TestWithDetails(t *testing.T) {
	appErr := NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, nil).
		WithDetails(map[string]any{"validation": "quantity too small"})
	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "quantity too small", details["validation"])
}
