package sources

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/core"
	"github.com/vaultkeeper/multivault/pkg/pusher/events"
)

func Test_ledgerDispatcher_subscribe(t *testing.T) {
	tests := []struct {
		name          string
		options       []SubscribeToWalletEventsOptions
		wantAllEvents map[subscriberID]struct{}
		wantByEvent   map[events.Name]map[subscriberID]struct{}
	}{
		{
			name: "all events",
			options: []SubscribeToWalletEventsOptions{
				{AllEvents: true},
			},
			wantAllEvents: map[subscriberID]struct{}{
				1: {},
			},
			wantByEvent: map[events.Name]map[subscriberID]struct{}{},
		},
		{
			name: "several events",
			options: []SubscribeToWalletEventsOptions{
				{
					Events: []events.Name{events.ProposedEvent, events.ExecutedEvent},
				},
				{
					Events: []events.Name{events.ConfirmedEvent, events.ExecutedEvent},
				},
			},
			wantAllEvents: map[subscriberID]struct{}{},
			wantByEvent: map[events.Name]map[subscriberID]struct{}{
				events.ProposedEvent: {
					1: {},
				},
				events.ConfirmedEvent: {
					2: {},
				},
				events.ExecutedEvent: {
					1: {},
					2: {},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := zap.NewDevelopment()
			disp := NewLedgerDispatcher(logger)
			var cancels []CancelFn
			for _, opts := range tt.options {
				cancelFn := disp.SubscribeToWalletEvents(context.Background(), func(eventData []byte) {}, opts)
				require.NotNil(t, cancelFn)
				cancels = append(cancels, cancelFn)
			}
			allEvents := map[subscriberID]struct{}{}
			for subID := range disp.allEvents {
				allEvents[subID] = struct{}{}
			}
			require.Equal(t, tt.wantAllEvents, allEvents)

			byEvent := map[events.Name]map[subscriberID]struct{}{}
			for name, subscribers := range disp.byEvent {
				byEvent[name] = map[subscriberID]struct{}{}
				for subID := range subscribers {
					byEvent[name][subID] = struct{}{}
				}
			}
			require.Equal(t, tt.wantByEvent, byEvent)

			for _, cancel := range cancels {
				cancel()
			}
			require.Equal(t, 0, len(disp.allEvents))
			require.Equal(t, 0, len(disp.options))
			require.Equal(t, 0, len(disp.byEvent))
		})
	}
}

func Test_ledgerDispatcher_dispatch(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	disp := NewLedgerDispatcher(logger)

	all := make(chan WalletEventData, 10)
	disp.SubscribeToWalletEvents(context.Background(), collect(t, all), SubscribeToWalletEventsOptions{AllEvents: true})

	executedOnly := make(chan WalletEventData, 10)
	disp.SubscribeToWalletEvents(context.Background(), collect(t, executedOnly), SubscribeToWalletEventsOptions{
		Events: []events.Name{events.ExecutedEvent},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := disp.Run(ctx)

	approver := core.MustParseAddress("0x1111111111111111111111111111111111111111")
	ch <- core.ConfirmedEvent{Approver: approver, Index: 0}
	ch <- core.ExecutedEvent{Index: 0}

	got := receive(t, all)
	require.Equal(t, events.ConfirmedEvent, got.Event)
	got = receive(t, all)
	require.Equal(t, events.ExecutedEvent, got.Event)

	got = receive(t, executedOnly)
	require.Equal(t, events.ExecutedEvent, got.Event)
	select {
	case extra := <-executedOnly:
		t.Fatalf("unexpected event %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func collect(t *testing.T, ch chan WalletEventData) DeliveryFn {
	return func(eventData []byte) {
		var data struct {
			Event events.Name     `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(eventData, &data))
		ch <- WalletEventData{Event: data.Event}
	}
}

func receive(t *testing.T, ch chan WalletEventData) WalletEventData {
	select {
	case data := <-ch:
		return data
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return WalletEventData{}
	}
}
