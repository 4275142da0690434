package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/pusher/metrics"
	"github.com/vaultkeeper/multivault/pkg/pusher/sources"
)

var (
	upgrader websocket.Upgrader // use default options
)

type JsonRPCRequest struct {
	ID      uint64   `json:"id,omitempty"`
	JSONRPC string   `json:"jsonrpc,omitempty"`
	Method  string   `json:"method,omitempty"`
	Params  []string `json:"params,omitempty"`
}

type JsonRPCResponse struct {
	ID      uint64          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  string          `json:"result,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Handler returns a function keeping a JSON-RPC subscription session over a
// websocket connection.
func Handler(logger *zap.Logger, source sources.EventSource) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("failed to upgrade HTTP connection to websocket protocol", zap.Error(err))
			return err
		}
		defer conn.Close()

		metrics.OpenWebsocketConnection()
		defer metrics.CloseWebsocketConnection()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		session := newSession(logger, source, conn)
		requestCh := session.Run(ctx)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					return nil
				}
				return err
			}
			var request JsonRPCRequest
			if err = json.Unmarshal(msg, &request); err != nil {
				logger.Error("request unmarshalling error", zap.Error(err))
				return err
			}
			requestCh <- request
		}
	}
}
