package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/pusher/events"
	"github.com/vaultkeeper/multivault/pkg/pusher/metrics"
	"github.com/vaultkeeper/multivault/pkg/pusher/sources"
)

// session is a light-weight implementation of JSON-RPC protocol over an HTTP connection from a client.
type session struct {
	logger       *zap.Logger
	conn         *websocket.Conn
	source       sources.EventSource
	eventCh      chan event
	subscription sources.CancelFn
	pingInterval time.Duration
}

type event struct {
	Name   events.Name
	Method string
	Params []byte
}

func newSession(logger *zap.Logger, source sources.EventSource, conn *websocket.Conn) *session {
	return &session{
		logger:       logger,
		eventCh:      make(chan event, 1000),
		conn:         conn,
		source:       source,
		pingInterval: 5 * time.Second,
	}
}

func (s *session) cancel() {
	if s.subscription != nil {
		s.subscription()
		s.subscription = nil
	}
}

func (s *session) Run(ctx context.Context) chan JsonRPCRequest {
	requestCh := make(chan JsonRPCRequest)
	go func() {
		defer s.cancel()

		for {
			var err error
			select {
			case <-ctx.Done():
				return
			case e := <-s.eventCh:
				response := JsonRPCResponse{
					JSONRPC: "2.0",
					Method:  e.Method,
					Params:  e.Params,
				}
				metrics.WebsocketEventSent(e.Name)
				err = s.conn.WriteJSON(response)
			case request := <-requestCh:
				var response string
				switch request.Method {
				case "subscribe_events":
					response = s.subscribeToWalletEvents(ctx, request.Params)
				case "unsubscribe_events":
					response = s.unsubscribeFromWalletEvents()
				default:
					response = fmt.Sprintf("unknown method '%v'", request.Method)
				}
				err = s.writeResponse(response, request)
			case <-time.After(s.pingInterval):
				metrics.WebsocketEventSent(events.PingEvent)
				err = s.conn.WriteMessage(websocket.PingMessage, []byte{})
			}
			if err != nil {
				s.logger.Error("websocket session failed", zap.Error(err))
				return
			}
		}
	}()
	return requestCh
}

func (s *session) subscribeToWalletEvents(ctx context.Context, params []string) string {
	if s.subscription != nil {
		return "you are already subscribed to wallet events"
	}
	options := sources.SubscribeToWalletEventsOptions{AllEvents: true}
	if len(params) > 0 {
		names := make([]events.Name, 0, len(params))
		for _, param := range params {
			name := events.Name(strings.TrimSpace(param))
			if !name.IsValid() {
				return fmt.Sprintf("unknown event '%v'", param)
			}
			names = append(names, name)
		}
		options = sources.SubscribeToWalletEventsOptions{Events: names}
	}
	s.subscription = s.source.SubscribeToWalletEvents(ctx, func(data []byte) {
		metrics.WebsocketQueueLength(events.WalletEvent, len(s.eventCh))
		s.eventCh <- event{
			Name:   events.WalletEvent,
			Method: "wallet_event",
			Params: data,
		}
	}, options)
	return "success"
}

func (s *session) unsubscribeFromWalletEvents() string {
	if s.subscription == nil {
		return "you are not subscribed to wallet events"
	}
	s.cancel()
	return "success"
}

func (s *session) writeResponse(response string, request JsonRPCRequest) error {
	resp := JsonRPCResponse{
		ID:      request.ID,
		JSONRPC: "2.0",
		Method:  request.Method,
		Result:  response,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
