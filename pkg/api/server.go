package api

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/pusher/sources"
	"github.com/vaultkeeper/multivault/pkg/pusher/sse"
	"github.com/vaultkeeper/multivault/pkg/pusher/websocket"
)

type Server struct {
	logger     *zap.Logger
	httpServer *http.Server
}

type httpMiddleware func(http.Handler) http.Handler

type ServerOptions struct {
	httpMiddleware    []httpMiddleware
	eventSource       sources.EventSource
	proposalRateLimit int
}

type ServerOption func(options *ServerOptions)

func WithHttpMiddleware(m ...httpMiddleware) ServerOption {
	return func(options *ServerOptions) {
		options.httpMiddleware = m
	}
}

// WithProposalRateLimit caps proposals per remote host per minute.
// Zero disables the limit.
func WithProposalRateLimit(perMinute int) ServerOption {
	return func(options *ServerOptions) {
		options.proposalRateLimit = perMinute
	}
}

// WithEventSource wires the streaming endpoints to a source of wallet events.
func WithEventSource(source sources.EventSource) ServerOption {
	return func(options *ServerOptions) {
		options.eventSource = source
	}
}

func NewServer(log *zap.Logger, handler *Handler, address string, opts ...ServerOption) (*Server, error) {
	options := &ServerOptions{}
	for _, o := range opts {
		o(options)
	}
	middleware := []httpMiddleware{loggingMiddleware(log), metricsMiddleware}
	middleware = append(middleware, options.httpMiddleware...)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/wallet", handler.GetWallet)
	mux.HandleFunc("GET /v1/wallet/approvers", handler.GetApprovers)
	var propose http.Handler = http.HandlerFunc(handler.ProposeTransaction)
	if options.proposalRateLimit > 0 {
		propose = rateLimitMiddleware(uint64(options.proposalRateLimit), time.Minute)(propose)
	}
	mux.Handle("POST /v1/wallet/transactions", propose)
	mux.HandleFunc("GET /v1/wallet/transactions", handler.GetTransactions)
	mux.HandleFunc("GET /v1/wallet/transactions/{index}", handler.GetTransaction)
	mux.HandleFunc("POST /v1/wallet/transactions/{index}/confirmations", handler.ConfirmTransaction)
	mux.HandleFunc("GET /v1/wallet/transactions/{index}/confirmations/{approver}", handler.GetConfirmationStatus)

	if options.eventSource != nil {
		sseHandler := sse.NewHandler(options.eventSource)
		mux.Handle("GET /v1/sse/wallet/events", sse.StreamingMiddleware(sseHandler.SubscribeToWalletEvents))
		wsHandler := websocket.Handler(log, options.eventSource)
		mux.HandleFunc("GET /v1/websocket", func(w http.ResponseWriter, r *http.Request) {
			if err := wsHandler(w, r); err != nil {
				log.Info("websocket connection closed", zap.Error(err))
			}
		})
	}

	var root http.Handler = mux
	for _, md := range middleware {
		root = md(root)
	}

	serv := Server{
		logger: log,
		httpServer: &http.Server{
			Addr:    address,
			Handler: root,
		},
	}
	return &serv, nil
}

func (s *Server) Run() {
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Info("multivault quit")
		return
	}
	s.logger.Fatal("ListenAndServe() failed", zap.Error(err))
}
