package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/store"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	Code           string             `json:"code,omitempty"`
	Name           string             `json:"name"`
	Type           ledger.AccountType `json:"type"`
	SubType        ledger.SubType     `json:"sub_type,omitempty"`
	Role           ledger.Role        `json:"role,omitempty"`
	OpeningBalance string             `json:"opening_balance,omitempty"`
	ParentCode     string             `json:"parent_code,omitempty"`
	IsPosting      *bool              `json:"is_posting,omitempty"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		amt, err := ledger.ParseAmount(req.OpeningBalance)
		if err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
		opening = amt
	}

	acct := &ledger.Account{
		Code:           req.Code,
		Name:           req.Name,
		Type:           req.Type,
		SubType:        req.SubType,
		Role:           req.Role,
		OpeningBalance: opening,
		ParentCode:     req.ParentCode,
		IsPosting:      true,
	}
	if req.IsPosting != nil {
		acct.IsPosting = *req.IsPosting
	}

	if err := s.store.CreateAccount(r.Context(), acct); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	// Fetch back to get created_at
	created, err := s.store.GetAccount(r.Context(), acct.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, acct)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := store.AccountFilter{}

	if typ := r.URL.Query().Get("type"); typ != "" {
		filter.Type = ledger.AccountType(typ)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = ledger.Status(status)
	}
	if r.URL.Query().Get("posting") == "true" {
		filter.PostingOnly = true
	}

	accounts, err := s.store.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	acct, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) getAccountBalance(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	asOf := ledger.Date(r.URL.Query().Get("as_of"))
	if asOf != "" {
		if err := asOf.Validate(); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}

	chart, snap, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := engine.NewIndex(chart, snap)

	balance, err := idx.Balance(id, asOf)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": id,
		"as_of":      asOf,
		"balance":    balance,
		"formatted":  ledger.FormatAmount(balance),
	})
}

func (s *Server) getAccountLedger(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}

	chart, snap, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stmt, err := engine.NewIndex(chart, snap).Statement(id, from, to)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}

type updateAccountRequest struct {
	Name           *string         `json:"name,omitempty"`
	Status         *ledger.Status  `json:"status,omitempty"`
	OpeningBalance *string         `json:"opening_balance,omitempty"`
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	upd := store.AccountUpdate{Name: req.Name, Status: req.Status}
	if req.OpeningBalance != nil {
		amt, err := ledger.ParseAmount(*req.OpeningBalance)
		if err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
		upd.OpeningBalance = &amt
	}

	if err := s.store.UpdateAccount(r.Context(), id, upd); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	acct, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), store.AccountFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}
