package server

import (
	"net/http"

	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
)

// periodParams reads and validates the from/to query bounds. Empty bounds
// are open.
func periodParams(w http.ResponseWriter, r *http.Request) (from, to ledger.Date, ok bool) {
	from = ledger.Date(r.URL.Query().Get("from"))
	to = ledger.Date(r.URL.Query().Get("to"))
	for _, d := range []ledger.Date{from, to} {
		if d == "" {
			continue
		}
		if err := d.Validate(); err != nil {
			writeError(w, mapError(err), err.Error())
			return "", "", false
		}
	}
	return from, to, true
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (*engine.Index, bool) {
	chart, snap, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return engine.NewIndex(chart, snap), true
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.TrialBalance(from, to))
}

func (s *Server) ledgerSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.LedgerSummary(from, to))
}

func (s *Server) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.ProfitAndLoss(from, to))
}

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := ledger.Date(r.URL.Query().Get("as_of"))
	if asOf != "" {
		if err := asOf.Validate(); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.BalanceSheet(asOf))
}

func (s *Server) receivables(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.Receivables(from, to))
}

func (s *Server) payables(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.Payables(from, to))
}

func (s *Server) salesByCustomer(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.SalesByCustomer(from, to))
}

func (s *Server) salesByItem(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, idx.SalesByItem(from, to))
}

func (s *Server) warnings(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w, r)
	if !ok {
		return
	}
	warnings := idx.Warnings()
	if warnings == nil {
		warnings = []engine.Warning{}
	}
	writeJSON(w, http.StatusOK, warnings)
}
