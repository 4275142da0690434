package sse

import (
	"net/http"

	"github.com/vaultkeeper/multivault/pkg/pusher/errors"
	"github.com/vaultkeeper/multivault/pkg/pusher/metrics"
)

// HandlerFunc sets up a subscription for the given session.
type HandlerFunc func(session *session, request *http.Request) error

func writeError(writer http.ResponseWriter, err error) {
	if httpErr, ok := errors.AsHTTPError(err); ok {
		writer.WriteHeader(httpErr.Code)
		writer.Write([]byte(httpErr.Message))
		return
	}
	writer.WriteHeader(http.StatusInternalServerError)
	writer.Write([]byte(err.Error()))
}

// StreamingMiddleware turns a HandlerFunc into an http.Handler that keeps the
// connection open and streams events to the client.
func StreamingMiddleware(handler HandlerFunc) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, ok := writer.(http.Flusher)
		if !ok {
			writeError(writer, errors.InternalServerError("streaming unsupported"))
			return
		}

		writer.Header().Set("Content-Type", "text/event-stream")
		writer.Header().Set("Cache-Control", "no-cache")
		writer.Header().Set("Connection", "keep-alive")
		writer.Header().Set("Transfer-Encoding", "chunked")

		metrics.OpenSseConnection()
		defer metrics.CloseSseConnection()

		session := newSession()
		if err := handler(session, request); err != nil {
			writeError(writer, err)
			return
		}
		if err := session.StreamEvents(request.Context(), writer); err != nil {
			writeError(writer, err)
			return
		}
	})
}
