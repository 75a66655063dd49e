package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/microbooks/microbooks/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrDocumentNotFound),
		errors.Is(err, ledger.ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnbalancedVoucher),
		errors.Is(err, ledger.ErrTooFewLines),
		errors.Is(err, ledger.ErrMixedLine),
		errors.Is(err, ledger.ErrNoEntries),
		errors.Is(err, ledger.ErrUnknownKind),
		errors.Is(err, ledger.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrSystemAccount),
		errors.Is(err, ledger.ErrAccountHasPostings),
		errors.Is(err, ledger.ErrTypeChange),
		errors.Is(err, ledger.ErrMissingRole):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
