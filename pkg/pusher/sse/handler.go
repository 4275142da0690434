package sse

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vaultkeeper/multivault/internal/g"
	"github.com/vaultkeeper/multivault/pkg/pusher/errors"
	"github.com/vaultkeeper/multivault/pkg/pusher/events"
	"github.com/vaultkeeper/multivault/pkg/pusher/sources"
)

// Handler handles http methods for sse.
type Handler struct {
	source         sources.EventSource
	currentEventID int64
}

func NewHandler(source sources.EventSource) *Handler {
	h := Handler{
		source:         source,
		currentEventID: time.Now().UnixNano(),
	}
	return &h
}

func parseEventsQuery(eventsStr string) (*sources.SubscribeToWalletEventsOptions, error) {
	if len(eventsStr) == 0 || strings.ToUpper(eventsStr) == "ALL" {
		return &sources.SubscribeToWalletEventsOptions{AllEvents: true}, nil
	}
	names := strings.Split(eventsStr, ",")
	subscribed := make([]events.Name, 0, len(names))
	for _, name := range names {
		n := events.Name(strings.TrimSpace(name))
		if !n.IsValid() {
			return nil, fmt.Errorf("unknown event %q, valid events: %s", name, strings.Join(g.ToStrings(events.All), ", "))
		}
		subscribed = append(subscribed, n)
	}
	return &sources.SubscribeToWalletEventsOptions{Events: subscribed}, nil
}

// SubscribeToWalletEvents streams wallet events to the client. The "events"
// query parameter limits the stream to a comma-separated list of event names;
// absent or "ALL" means everything.
func (h *Handler) SubscribeToWalletEvents(session *session, request *http.Request) error {
	if h.source == nil {
		return errors.BadRequest("event source is not configured")
	}
	options, err := parseEventsQuery(request.URL.Query().Get("events"))
	if err != nil {
		return errors.BadRequest(fmt.Sprintf("failed to parse query parameters: %v", err))
	}
	cancelFn := h.source.SubscribeToWalletEvents(request.Context(), func(data []byte) {
		event := Event{
			Name:    events.WalletEvent,
			EventID: h.nextID(),
			Data:    data,
		}
		session.SendEvent(event)
	}, *options)
	session.SetCancelFn(cancelFn)
	return nil
}

func (h *Handler) nextID() int64 {
	return atomic.AddInt64(&h.currentEventID, 1)
}
