package core

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"sync"

	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/sentry"
)

// TransferFunc moves value out of the pooled balance to a recipient. The wallet
// invokes it at most once per transaction, at the moment the transaction is
// marked executed.
type TransferFunc func(ctx context.Context, to Address, value uint64) error

// confirmationKey identifies a single approver's vote on a single transaction.
type confirmationKey struct {
	index    int
	approver Address
}

func hashConfirmationKey(seed maphash.Seed, k confirmationKey) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k.index))
	h.Write(buf[:])
	h.Write(k.approver[:])
	return h.Sum64()
}

// Wallet is a multi-party authorization ledger: a fixed approver set collectively
// controls disbursement of a pooled balance. A proposed transaction becomes
// executed when every approver has confirmed it.
//
// All mutations go through the wallet's lock and run to completion atomically:
// a failed precondition leaves the state untouched. Snapshot reads take the read
// lock; HasConfirmed reads the confirmation index lock-free.
type Wallet struct {
	logger      *zap.Logger
	creator     Address
	approvers   []Address
	approverSet map[Address]struct{}
	required    int

	mu           sync.RWMutex
	transactions []Transaction

	confirmations *xsync.MapOf[confirmationKey, struct{}]

	events   chan<- Event
	transfer TransferFunc
}

type Option func(*Wallet)

// WithEvents configures a channel to receive wallet events. The channel must be
// drained continuously; the dispatcher run loop does exactly that.
func WithEvents(ch chan<- Event) Option {
	return func(w *Wallet) {
		w.events = ch
	}
}

// WithTransfer configures the asset-transfer capability invoked on execution.
func WithTransfer(fn TransferFunc) Option {
	return func(w *Wallet) {
		w.transfer = fn
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wallet) {
		w.logger = logger
	}
}

// WithCreator records the identity that created the wallet. The creator has no
// special powers over the transaction log.
func WithCreator(creator Address) Option {
	return func(w *Wallet) {
		w.creator = creator
	}
}

// NewWallet builds a wallet controlled by the given approvers. The required
// number of confirmations is the full approver count. The approver set is
// immutable afterwards.
func NewWallet(approvers []Address, opts ...Option) (*Wallet, error) {
	if len(approvers) == 0 {
		return nil, fmt.Errorf("%w: empty approver list", ErrInvalidConfiguration)
	}
	set := make(map[Address]struct{}, len(approvers))
	for _, a := range approvers {
		if a.IsZero() {
			return nil, fmt.Errorf("%w: zero address approver", ErrInvalidConfiguration)
		}
		if _, ok := set[a]; ok {
			return nil, fmt.Errorf("%w: duplicate approver %v", ErrInvalidConfiguration, a)
		}
		set[a] = struct{}{}
	}
	w := &Wallet{
		logger:        zap.NewNop(),
		approvers:     append([]Address(nil), approvers...),
		approverSet:   set,
		required:      len(approvers),
		confirmations: xsync.NewTypedMapOf[confirmationKey, struct{}](hashConfirmationKey),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Approvers returns the approver set in construction order.
func (w *Wallet) Approvers() []Address {
	return append([]Address(nil), w.approvers...)
}

// RequiredConfirmations returns the number of distinct confirmations a
// transaction needs before it executes.
func (w *Wallet) RequiredConfirmations() int {
	return w.required
}

func (w *Wallet) Creator() Address {
	return w.creator
}

// IsApprover reports whether the given identity belongs to the approver set.
func (w *Wallet) IsApprover(a Address) bool {
	_, ok := w.approverSet[a]
	return ok
}

// Propose appends a new pending transaction to the log and returns its index.
// Anyone may propose; only confirmations are gated on the approver set.
func (w *Wallet) Propose(ctx context.Context, proposer, to Address, value uint64) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	index := len(w.transactions)
	w.transactions = append(w.transactions, Transaction{To: to, Value: value})
	w.logger.Debug("transaction proposed",
		zap.Int("index", index),
		zap.String("proposer", proposer.ToRaw()),
		zap.String("to", to.ToRaw()),
		zap.Uint64("value", value))
	w.emit(ProposedEvent{Proposer: proposer, Index: index, To: to, Value: value})
	return index
}

// Confirm records the caller's vote on the transaction at the given index.
// Once the vote brings the transaction to the required confirmation count, the
// execute step runs within the same critical section, so a transaction can never
// be observed fully confirmed but not executed.
//
// Preconditions are checked in a fixed order: ErrNotApprover, ErrTxNotFound,
// ErrAlreadyExecuted, ErrAlreadyConfirmed.
func (w *Wallet) Confirm(ctx context.Context, index int, caller Address) error {
	if !w.IsApprover(caller) {
		return fmt.Errorf("%w: %v", ErrNotApprover, caller)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if index < 0 || index >= len(w.transactions) {
		return fmt.Errorf("%w: index %d", ErrTxNotFound, index)
	}
	tx := &w.transactions[index]
	if tx.Executed {
		return ErrAlreadyExecuted
	}
	key := confirmationKey{index: index, approver: caller}
	if _, ok := w.confirmations.Load(key); ok {
		return ErrAlreadyConfirmed
	}

	tx.Confirmations++
	w.confirmations.Store(key, struct{}{})
	w.logger.Debug("transaction confirmed",
		zap.Int("index", index),
		zap.String("approver", caller.ToRaw()),
		zap.Int("confirmations", tx.Confirmations))
	w.emit(ConfirmedEvent{Approver: caller, Index: index})

	if tx.Confirmations >= w.required {
		return w.execute(ctx, index)
	}
	return nil
}

// execute marks the transaction executed and invokes the transfer capability.
// Callers must hold the write lock. The threshold is re-checked here so that
// every path into execution goes through the confirmation gate.
func (w *Wallet) execute(ctx context.Context, index int) error {
	tx := &w.transactions[index]
	if tx.Executed {
		return ErrAlreadyExecuted
	}
	if tx.Confirmations < w.required {
		return fmt.Errorf("transaction %d has %d of %d confirmations", index, tx.Confirmations, w.required)
	}
	tx.Executed = true
	w.logger.Info("transaction executed",
		zap.Int("index", index),
		zap.String("to", tx.To.ToRaw()),
		zap.Uint64("value", tx.Value))
	w.emit(ExecutedEvent{Index: index})

	if w.transfer == nil {
		return nil
	}
	if err := w.transfer(ctx, tx.To, tx.Value); err != nil {
		// The executed flag is never rolled back: the transfer is an external
		// liability from here on.
		w.logger.Error("asset transfer failed after execution",
			zap.Int("index", index),
			zap.String("to", tx.To.ToRaw()),
			zap.Uint64("value", tx.Value),
			zap.Error(err))
		sentry.Send("asset transfer failed", sentry.InfoData{
			"index": index,
			"to":    tx.To.ToRaw(),
			"value": tx.Value,
			"error": err.Error(),
		}, sentry.LevelError)
	}
	return nil
}

// Transaction returns a snapshot of the transaction at the given index.
func (w *Wallet) Transaction(index int) (Transaction, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if index < 0 || index >= len(w.transactions) {
		return Transaction{}, fmt.Errorf("%w: index %d", ErrTxNotFound, index)
	}
	return w.transactions[index], nil
}

// Transactions returns the log length and a snapshot of the full log in
// creation order.
func (w *Wallet) Transactions() (int, []Transaction) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.transactions), append([]Transaction(nil), w.transactions...)
}

// HasConfirmed reports whether the approver already voted on the transaction.
func (w *Wallet) HasConfirmed(index int, approver Address) bool {
	_, ok := w.confirmations.Load(confirmationKey{index: index, approver: approver})
	return ok
}

func (w *Wallet) emit(event Event) {
	if w.events == nil {
		return
	}
	w.events <- event
}
