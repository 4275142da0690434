package core

// Event is a one-way notification raised by the wallet. Events are emitted in
// causal order with the operation that raised them, whether or not anyone
// subscribed.
type Event interface {
	walletEvent()
}

// ProposedEvent is raised when a new transaction is appended to the log.
type ProposedEvent struct {
	Proposer Address `json:"proposer"`
	Index    int     `json:"index"`
	To       Address `json:"to"`
	Value    uint64  `json:"value"`
}

// ConfirmedEvent is raised when an approver confirms a pending transaction.
type ConfirmedEvent struct {
	Approver Address `json:"approver"`
	Index    int     `json:"index"`
}

// ExecutedEvent is raised when a transaction reaches the confirmation threshold
// and is marked executed.
type ExecutedEvent struct {
	Index int `json:"index"`
}

func (ProposedEvent) walletEvent()  {}
func (ConfirmedEvent) walletEvent() {}
func (ExecutedEvent) walletEvent()  {}
