package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/cache"
	"github.com/vaultkeeper/multivault/pkg/core"
)

type Handler struct {
	logger  *zap.Logger
	ledger  ledger
	balance balanceProvider

	// executed transactions are terminal, so their converted form never changes.
	executedCache cache.Cache[int, Transaction]
}

type HandlerOption func(*Handler)

// WithBalance exposes a pooled balance on the wallet resource. Omitted when
// settlement happens outside the process and no local balance is authoritative.
func WithBalance(balance balanceProvider) HandlerOption {
	return func(h *Handler) {
		h.balance = balance
	}
}

func NewHandler(logger *zap.Logger, ledger ledger, opts ...HandlerOption) *Handler {
	h := &Handler{
		logger:        logger,
		ledger:        ledger,
		executedCache: cache.NewLRUCache[int, Transaction](10000, "executed_transactions"),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet := Wallet{
		Approvers:             convertApprovers(h.ledger.Approvers()),
		RequiredConfirmations: h.ledger.RequiredConfirmations(),
	}
	if h.balance != nil {
		wallet.Balance = h.balance.Balance().String()
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *Handler) GetApprovers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Approvers{Approvers: convertApprovers(h.ledger.Approvers())})
}

type proposeRequest struct {
	Proposer string `json:"proposer"`
	To       string `json:"to"`
	Value    uint64 `json:"value"`
}

func (h *Handler) ProposeTransaction(w http.ResponseWriter, r *http.Request) {
	var request proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposer, err := core.ParseAddress(request.Proposer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := core.ParseAddress(request.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	index := h.ledger.Propose(r.Context(), proposer, to, request.Value)
	writeJSON(w, http.StatusCreated, ProposeResult{Index: index})
}

type confirmRequest struct {
	Approver string `json:"approver"`
}

func (h *Handler) ConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var request confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	approver, err := core.ParseAddress(request.Approver)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.ledger.Confirm(r.Context(), index, approver); err != nil {
		writeError(w, toStatus(err), err)
		return
	}
	tx, err := h.ledger.Transaction(index)
	if err != nil {
		writeError(w, toStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, Confirmation{
		Index:         index,
		Approver:      approver.ToRaw(),
		Confirmations: tx.Confirmations,
		Executed:      tx.Executed,
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if converted, ok := h.executedCache.Get(index); ok {
		writeJSON(w, http.StatusOK, converted)
		return
	}
	tx, err := h.ledger.Transaction(index)
	if err != nil {
		writeError(w, toStatus(err), err)
		return
	}
	converted := convertTransaction(index, tx)
	if tx.Executed {
		h.executedCache.Set(index, converted)
	}
	writeJSON(w, http.StatusOK, converted)
}

func (h *Handler) GetConfirmationStatus(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	approver, err := core.ParseAddress(r.PathValue("approver"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := h.ledger.Transaction(index); err != nil {
		writeError(w, toStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ConfirmationStatus{
		Index:     index,
		Approver:  approver.ToRaw(),
		Confirmed: h.ledger.HasConfirmed(index, approver),
	})
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	count, txs := h.ledger.Transactions()
	writeJSON(w, http.StatusOK, Transactions{
		Count:        count,
		Transactions: convertTransactions(txs),
	})
}

func parseIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
