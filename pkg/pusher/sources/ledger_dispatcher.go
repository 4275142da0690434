package sources

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/core"
	"github.com/vaultkeeper/multivault/pkg/pusher/events"
)

type subscriberID int64

// LedgerDispatcher implements the fan-out pattern reading wallet events from a
// single channel and delivering them to multiple subscribers.
type LedgerDispatcher struct {
	logger *zap.Logger

	mu        sync.RWMutex
	byEvent   map[events.Name]map[subscriberID]DeliveryFn
	allEvents map[subscriberID]DeliveryFn
	options   map[subscriberID]SubscribeToWalletEventsOptions
	currentID subscriberID
}

func NewLedgerDispatcher(logger *zap.Logger) *LedgerDispatcher {
	return &LedgerDispatcher{
		logger:    logger,
		byEvent:   map[events.Name]map[subscriberID]DeliveryFn{},
		allEvents: map[subscriberID]DeliveryFn{},
		options:   map[subscriberID]SubscribeToWalletEventsOptions{},
		currentID: 1,
	}
}

// WalletEventData is the payload subscribers receive, one JSON object per event.
type WalletEventData struct {
	Event events.Name `json:"event"`
	Data  core.Event  `json:"data"`
}

func eventName(e core.Event) events.Name {
	switch e.(type) {
	case core.ProposedEvent:
		return events.ProposedEvent
	case core.ConfirmedEvent:
		return events.ConfirmedEvent
	case core.ExecutedEvent:
		return events.ExecutedEvent
	}
	return ""
}

// Run runs a dispatching loop in a dedicated goroutine and returns a channel to
// be used to communicate with this dispatcher. The wallet emits into the channel;
// delivery to subscribers is fire-and-forget.
func (disp *LedgerDispatcher) Run(ctx context.Context) chan core.Event {
	ch := make(chan core.Event, 100)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-ch:
				name := eventName(e)
				if name == "" {
					continue
				}
				disp.logger.Debug("handling wallet event", zap.String("event", name.String()))
				disp.dispatch(name, WalletEventData{Event: name, Data: e})
			}
		}
	}()
	return ch
}

func (disp *LedgerDispatcher) dispatch(name events.Name, data WalletEventData) {
	eventData, err := json.Marshal(data)
	if err != nil {
		disp.logger.Error("json.Marshal() failed", zap.Error(err))
		return
	}
	disp.mu.RLock()
	defer disp.mu.RUnlock()

	for _, deliveryFn := range disp.allEvents {
		deliveryFn(eventData)
	}
	for _, deliveryFn := range disp.byEvent[name] {
		deliveryFn(eventData)
	}
}

// SubscribeToWalletEvents implements EventSource.
func (disp *LedgerDispatcher) SubscribeToWalletEvents(ctx context.Context, fn DeliveryFn, options SubscribeToWalletEventsOptions) CancelFn {
	disp.mu.Lock()
	defer disp.mu.Unlock()

	id := disp.currentID
	disp.currentID += 1
	disp.options[id] = options

	if options.AllEvents {
		disp.allEvents[id] = fn
		return func() { disp.unsubscribe(id) }
	}

	for _, name := range options.Events {
		subscribers, ok := disp.byEvent[name]
		if !ok {
			subscribers = map[subscriberID]DeliveryFn{}
			disp.byEvent[name] = subscribers
		}
		subscribers[id] = fn
	}

	return func() { disp.unsubscribe(id) }
}

func (disp *LedgerDispatcher) unsubscribe(id subscriberID) {
	disp.mu.Lock()
	defer disp.mu.Unlock()

	options, ok := disp.options[id]
	if !ok {
		return
	}
	delete(disp.options, id)
	if options.AllEvents {
		delete(disp.allEvents, id)
		return
	}
	for _, name := range options.Events {
		subscribers, ok := disp.byEvent[name]
		if !ok {
			continue
		}
		delete(subscribers, id)
		if len(subscribers) == 0 {
			delete(disp.byEvent, name)
		}
	}
}
