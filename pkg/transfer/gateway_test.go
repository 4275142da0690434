package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/core"
)

func TestGateway_Transfer(t *testing.T) {
	recipient := core.MustParseAddress("0x5555555555555555555555555555555555555555")

	var got settlementRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settlements", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, zap.NewNop())
	require.NoError(t, gateway.Transfer(context.Background(), recipient, 100))
	require.Equal(t, settlementRequest{To: recipient.ToRaw(), Value: 100}, got)
}

func TestGateway_retriesTransientFailures(t *testing.T) {
	recipient := core.MustParseAddress("0x5555555555555555555555555555555555555555")

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, zap.NewNop())
	require.NoError(t, gateway.Transfer(context.Background(), recipient, 100))
	require.Equal(t, int64(3), calls.Load())
}

func TestGateway_rejectionIsPermanent(t *testing.T) {
	recipient := core.MustParseAddress("0x5555555555555555555555555555555555555555")

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, zap.NewNop())
	require.Error(t, gateway.Transfer(context.Background(), recipient, 100))
	require.Equal(t, int64(1), calls.Load())
}
