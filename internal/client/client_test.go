package client

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/server"
	"github.com/microbooks/microbooks/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(server.New(st, "localhost:0", logger).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestClientAccountRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateAccount(ctx, &ledger.Account{
		Name:           "Depreciation",
		Type:           ledger.TypeExpense,
		SubType:        ledger.SubOperating,
		OpeningBalance: decimal.RequireFromString("12.50"),
		IsPosting:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "5110", created.Code)
	assert.True(t, created.OpeningBalance.Equal(decimal.RequireFromString("12.50")))

	got, err := c.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depreciation", got.Name)

	name := "Depreciation Expense"
	updated, err := c.UpdateAccount(ctx, created.ID, AccountUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	require.NoError(t, c.DeleteAccount(ctx, created.ID))
	_, err = c.GetAccount(ctx, created.ID)
	assert.ErrorContains(t, err, "404")
}

func TestClientDocumentsAndReports(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.CreateDocument(ctx, ledger.KindInvoice, &ledger.Invoice{
		Date:         "2026-08-03",
		CustomerID:   "acme",
		CustomerName: "Acme Retail",
		Total:        decimal.RequireFromString("930"),
	})
	require.NoError(t, err)
	inv := res.Document.(*ledger.Invoice)
	assert.Contains(t, inv.Ref, "INV-")
	assert.Empty(t, res.Warnings)

	docs, err := c.ListDocuments(ctx, ledger.KindInvoice, "", "")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	ref := ledger.SourceRef{Kind: ledger.KindInvoice, ID: inv.ID}
	doc, err := c.GetDocument(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", doc.(*ledger.Invoice).CustomerName)

	tb, err := c.TrialBalance(ctx, "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.True(t, tb.Balanced)

	chart, err := c.GetChart(ctx)
	require.NoError(t, err)
	ar, ok := ledger.NewChart(chart).RoleAccount(ledger.RoleReceivable)
	require.True(t, ok)

	bal, err := c.GetAccountBalance(ctx, ar.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "930.00", bal.Formatted)

	stmt, err := c.GetAccountLedger(ctx, ar.ID, "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 1)
	assert.Equal(t, ref, stmt.Lines[0].Source)

	warnings, err := c.Warnings(ctx)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.NoError(t, c.DeleteDocument(ctx, ref))
	docs, err = c.ListDocuments(ctx, ledger.KindInvoice, "", "")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestClientPing(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))

	down := New("http://127.0.0.1:1")
	assert.Error(t, down.Ping(context.Background()))
}
