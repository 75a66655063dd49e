package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, "localhost:0", logger)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateAccountEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name":            "Depreciation",
		"type":            "expense",
		"sub_type":        "operating_expense",
		"opening_balance": "12.50",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	acct := decodeBody[ledger.Account](t, w)
	assert.Equal(t, "5110", acct.Code)
	assert.NotEmpty(t, acct.ID)
	assert.False(t, acct.CreatedAt.IsZero())

	w = doRequest(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Contra", "type": "contra",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Clash", "type": "asset", "code": "1000",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Orphan", "type": "asset", "parent_code": "8888",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Marketing", "type": "expense",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	acct := decodeBody[ledger.Account](t, w)

	w = doRequest(t, s, http.MethodPatch, "/api/v1/accounts/"+acct.ID, map[string]any{
		"name": "Marketing & Ads",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Marketing & Ads", decodeBody[ledger.Account](t, w).Name)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+acct.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/accounts/"+acct.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+acct.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSystemAccountRefused(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chart := ledger.NewChart(decodeBody[[]ledger.Account](t, w))
	cash, ok := chart.ByCode("1000")
	require.True(t, ok)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/accounts/"+cash.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDocumentEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/documents/invoice", map[string]any{
		"date":          "2026-08-03",
		"customer_id":   "acme",
		"customer_name": "Acme Retail",
		"total":         "930",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Document ledger.Invoice   `json:"document"`
		Warnings []engine.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Document.ID)
	assert.Contains(t, created.Document.Ref, "INV-")
	assert.Empty(t, created.Warnings)

	w = doRequest(t, s, http.MethodGet, "/api/v1/documents/invoice/"+created.Document.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme Retail", decodeBody[ledger.Invoice](t, w).CustomerName)

	w = doRequest(t, s, http.MethodGet, "/api/v1/documents?kind=invoice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]store.DocumentSummary](t, w), 1)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/documents/invoice/"+created.Document.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/documents/invoice/"+created.Document.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDocumentRejectsUnknownKind(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/documents/credit_note", map[string]any{
		"date": "2026-08-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/documents?kind=credit_note", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnbalancedJournalStoredWithWarning(t *testing.T) {
	s := newTestServer(t)

	// Journal vouchers are validated at the door.
	w := doRequest(t, s, http.MethodPost, "/api/v1/documents/journal_voucher", map[string]any{
		"date": "2026-08-01",
		"lines": []map[string]any{
			{"account_id": "1000", "debit": "100"},
			{"account_id": "3000", "credit": "60"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An invoice whose role account is intact posts cleanly; warnings stay
	// advisory for document kinds without their own validator.
	w = doRequest(t, s, http.MethodPost, "/api/v1/documents/cash_receipt_voucher", map[string]any{
		"date": "2026-08-01",
		"entries": []map[string]any{
			{"account_id": "ghost", "amount": "35"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Warnings []engine.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Warnings)
	assert.Contains(t, created.Warnings[0].Message, "unknown account")
}

func seedBooks(t *testing.T, s *Server) {
	t.Helper()
	post := func(path string, body any) {
		w := doRequest(t, s, http.MethodPost, path, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	post("/api/v1/documents/invoice", map[string]any{
		"date": "2026-08-03", "customer_id": "acme", "customer_name": "Acme Retail", "total": "930",
	})
	post("/api/v1/documents/purchase_bill", map[string]any{
		"date": "2026-08-05", "vendor_id": "globex", "vendor_name": "Globex Supplies", "total": "400",
	})
	post("/api/v1/documents/customer_payment", map[string]any{
		"date": "2026-08-14", "customer_id": "acme", "customer_name": "Acme Retail",
		"amount": "500", "method": "cash",
	})
}

func TestReportEndpoints(t *testing.T) {
	s := newTestServer(t)
	seedBooks(t, s)

	w := doRequest(t, s, http.MethodGet, "/api/v1/reports/trial-balance?from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tb := decodeBody[engine.TrialBalance](t, w)
	assert.True(t, tb.Balanced)
	assert.NotEmpty(t, tb.Rows)

	w = doRequest(t, s, http.MethodGet, "/api/v1/reports/pnl?from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pl := decodeBody[engine.ProfitAndLoss](t, w)
	assert.True(t, pl.TotalRevenue.Equal(amt("930")))
	assert.True(t, pl.NetProfit.Equal(amt("530")))

	w = doRequest(t, s, http.MethodGet, "/api/v1/reports/balance-sheet?as_of=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bs := decodeBody[engine.BalanceSheet](t, w)
	assert.True(t, bs.Balanced)

	w = doRequest(t, s, http.MethodGet, "/api/v1/reports/receivables?from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ps := decodeBody[engine.PartnerSummary](t, w)
	require.Len(t, ps.Rows, 1)
	assert.True(t, ps.Rows[0].Outstanding.Equal(amt("430")))

	w = doRequest(t, s, http.MethodGet, "/api/v1/reports/sales-by-customer?from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sr := decodeBody[engine.SalesReport](t, w)
	require.Len(t, sr.Rows, 1)
	assert.Equal(t, "Acme Retail", sr.Rows[0].Name)

	w = doRequest(t, s, http.MethodGet, "/api/v1/reports/warnings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String(), "clean books report no warnings")
}

func TestAccountBalanceEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedBooks(t, s)

	w := doRequest(t, s, http.MethodGet, "/api/v1/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chart := ledger.NewChart(decodeBody[[]ledger.Account](t, w))
	ar, ok := chart.RoleAccount(ledger.RoleReceivable)
	require.True(t, ok)

	// Strictly-before cutoff: the payment on the 14th is not yet folded.
	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+ar.ID+"/balance?as_of=2026-08-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bal struct {
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bal))
	assert.Equal(t, "930.00", bal.Formatted)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+ar.ID+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bal))
	assert.Equal(t, "430.00", bal.Formatted)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+ar.ID+"/balance?as_of=garbage", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/ghost/balance", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountLedgerEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedBooks(t, s)

	w := doRequest(t, s, http.MethodGet, "/api/v1/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chart := ledger.NewChart(decodeBody[[]ledger.Account](t, w))
	ar, _ := chart.RoleAccount(ledger.RoleReceivable)

	w = doRequest(t, s, http.MethodGet, "/api/v1/accounts/"+ar.ID+"/ledger?from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stmt := decodeBody[engine.Statement](t, w)
	require.Len(t, stmt.Lines, 2)
	assert.True(t, stmt.ClosingBalance.Equal(amt("430")))
	assert.Equal(t, ledger.KindInvoice, stmt.Lines[0].Source.Kind)
	assert.Equal(t, ledger.KindCustomerPayment, stmt.Lines[1].Source.Kind)
}

