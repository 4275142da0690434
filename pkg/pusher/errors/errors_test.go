package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsHTTPError(t *testing.T) {
	httpErr, ok := AsHTTPError(BadRequest("bad query"))
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
	require.Equal(t, "bad query", httpErr.Message)

	// a wrapped HTTPError must still carry its status code
	wrapped := fmt.Errorf("subscribe failed: %w", InternalServerError("boom"))
	httpErr, ok = AsHTTPError(wrapped)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, httpErr.Code)
	require.Equal(t, "boom", httpErr.Message)

	_, ok = AsHTTPError(fmt.Errorf("plain error"))
	require.False(t, ok)
}
