package events

// Name specifies different types of events that Streaming API sends to subscribers.
// Used for accounting purpose.
type Name string

const (
	PingEvent      Name = "ping"
	ProposedEvent  Name = "proposed"
	ConfirmedEvent Name = "confirmed"
	ExecutedEvent  Name = "executed"
	// WalletEvent labels a mixed stream of wallet events for accounting.
	WalletEvent Name = "wallet-event"
)

// All lists the wallet event names a client can subscribe to.
var All = []Name{ProposedEvent, ConfirmedEvent, ExecutedEvent}

func (n Name) String() string {
	return string(n)
}

// IsValid reports whether n is a subscribable wallet event name.
func (n Name) IsValid() bool {
	switch n {
	case ProposedEvent, ConfirmedEvent, ExecutedEvent:
		return true
	}
	return false
}
