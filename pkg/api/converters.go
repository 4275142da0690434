package api

import (
	"github.com/sourcegraph/conc/iter"

	"github.com/vaultkeeper/multivault/pkg/core"
)

type Transaction struct {
	Index         int    `json:"index"`
	To            string `json:"to"`
	Value         uint64 `json:"value"`
	Executed      bool   `json:"executed"`
	Confirmations int    `json:"confirmations"`
}

type Transactions struct {
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

type Wallet struct {
	Approvers             []string `json:"approvers"`
	RequiredConfirmations int      `json:"required_confirmations"`
	Balance               string   `json:"balance,omitempty"`
}

type Approvers struct {
	Approvers []string `json:"approvers"`
}

type Confirmation struct {
	Index         int    `json:"index"`
	Approver      string `json:"approver"`
	Confirmations int    `json:"confirmations"`
	Executed      bool   `json:"executed"`
}

type ConfirmationStatus struct {
	Index     int    `json:"index"`
	Approver  string `json:"approver"`
	Confirmed bool   `json:"confirmed"`
}

type ProposeResult struct {
	Index int `json:"index"`
}

func convertTransaction(index int, tx core.Transaction) Transaction {
	return Transaction{
		Index:         index,
		To:            tx.To.ToRaw(),
		Value:         tx.Value,
		Executed:      tx.Executed,
		Confirmations: tx.Confirmations,
	}
}

func convertTransactions(txs []core.Transaction) []Transaction {
	converted := make([]Transaction, len(txs))
	iter.ForEachIdx(txs, func(i int, tx *core.Transaction) {
		converted[i] = convertTransaction(i, *tx)
	})
	return converted
}

func convertApprovers(approvers []core.Address) []string {
	raw := make([]string, 0, len(approvers))
	for _, a := range approvers {
		raw = append(raw, a.ToRaw())
	}
	return raw
}
