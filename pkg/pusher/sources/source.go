package sources

import (
	"context"

	"github.com/vaultkeeper/multivault/pkg/pusher/events"
)

type SubscribeToWalletEventsOptions struct {
	AllEvents bool
	Events    []events.Name
}

// DeliveryFn describes a callback that will be triggered once a wallet event happens.
type DeliveryFn func(eventData []byte)

// CancelFn has to be called to unsubscribe.
type CancelFn func()

// EventSource provides a method to subscribe to notifications about wallet events.
type EventSource interface {
	SubscribeToWalletEvents(ctx context.Context, deliveryFn DeliveryFn, opts SubscribeToWalletEventsOptions) CancelFn
}
