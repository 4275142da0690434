package transfer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vaultkeeper/multivault/pkg/core"
)

var ErrInsufficientFunds = errors.New("insufficient pooled funds")

// Book is an in-memory balance book standing in for the host ledger: a single
// pooled balance debited by executed transactions and credited by deposits.
// Recipient balances are tracked so tests and reconciliation can observe where
// value went.
type Book struct {
	mu       sync.Mutex
	pool     decimal.Decimal
	accounts map[core.Address]decimal.Decimal
}

func NewBook(initial decimal.Decimal) *Book {
	return &Book{
		pool:     initial,
		accounts: map[core.Address]decimal.Decimal{},
	}
}

// Deposit credits the pooled balance.
func (b *Book) Deposit(amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pool = b.pool.Add(amount)
}

// Transfer debits the pool and credits the recipient. Matches core.TransferFunc.
func (b *Book) Transfer(ctx context.Context, to core.Address, value uint64) error {
	amount := decimal.NewFromBigInt(new(big.Int).SetUint64(value), 0)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool.LessThan(amount) {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, b.pool, amount)
	}
	b.pool = b.pool.Sub(amount)
	b.accounts[to] = b.accounts[to].Add(amount)
	return nil
}

// Balance returns the pooled balance.
func (b *Book) Balance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool
}

// BalanceOf returns the total amount disbursed to the given recipient.
func (b *Book) BalanceOf(a core.Address) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[a]
}
