package core

// Transaction is a proposed disbursement from the pooled balance.
// Its position in the wallet log is its identifier.
type Transaction struct {
	To            Address
	Value         uint64
	Executed      bool
	Confirmations int
}
