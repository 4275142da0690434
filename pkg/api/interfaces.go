package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vaultkeeper/multivault/pkg/core"
)

// ledger is the part of core.Wallet the API depends on.
type ledger interface {
	Approvers() []core.Address
	RequiredConfirmations() int
	Propose(ctx context.Context, proposer, to core.Address, value uint64) int
	Confirm(ctx context.Context, index int, caller core.Address) error
	Transaction(index int) (core.Transaction, error)
	Transactions() (int, []core.Transaction)
	HasConfirmed(index int, approver core.Address) bool
}

// balanceProvider exposes the pooled balance backing the wallet, if any.
type balanceProvider interface {
	Balance() decimal.Decimal
}
