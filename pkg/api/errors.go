package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vaultkeeper/multivault/pkg/core"
)

type errorJSON struct {
	Error string `json:"error"`
}

// toStatus maps core errors to HTTP status codes.
func toStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotApprover):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrTxNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyExecuted), errors.Is(err, core.ErrAlreadyConfirmed):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidConfiguration):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&errorJSON{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
