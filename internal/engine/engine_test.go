package engine

import (
	"strings"
	"testing"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testChart is the default chart with opening balances on cash, bank, and
// equity so the books start balanced.
func testChart() *ledger.Chart {
	accounts := ledger.DefaultChart()
	for i := range accounts {
		switch accounts[i].Code {
		case "1000":
			accounts[i].OpeningBalance = amt("500")
		case "1010":
			accounts[i].OpeningBalance = amt("1000")
		case "3000":
			accounts[i].OpeningBalance = amt("1500")
		}
	}
	return ledger.NewChart(accounts)
}

// testSnapshot covers every document kind that moves money in August 2026.
//
// Resulting closing balances through 2026-08-31:
//
//	1000 Cash   500 - 400 + 35   = 135
//	1010 Bank  1000 + 500 - 250 + 1000 = 2250
//	1100 AR     930 + 200 - 90 - 500   = 540
//	2000 AP     400 - 400       = 0
//	3000 Equity 1500 + 1000     = 2500
//	4000 Sales  930 + 200 - 90  = 1040
//	4100 Other  35
//	5000 COGS   400
//	5100-1 Rent 250
func testSnapshot() *ledger.Snapshot {
	return &ledger.Snapshot{
		Invoices: []ledger.Invoice{
			{
				ID: "inv1", Ref: "INV-001", Date: "2026-08-03",
				CustomerID: "acme", CustomerName: "Acme Retail",
				Items: []ledger.LineItem{
					{ItemID: "widget-a", Description: "Widget A", Quantity: amt("10"), Price: amt("45")},
					{ItemID: "widget-b", Description: "Widget B", Quantity: amt("4"), Price: amt("120")},
				},
				Total: amt("930"),
			},
			{
				ID: "inv2", Ref: "INV-002", Date: "2026-08-07",
				CustomerID: "bluebird", CustomerName: "Bluebird Cafe",
				Items: []ledger.LineItem{
					{ItemID: "widget-a", Description: "Widget A", Quantity: amt("2"), Price: amt("100")},
				},
				Total: amt("200"),
			},
		},
		Bills: []ledger.PurchaseBill{
			{
				ID: "bill1", Ref: "BILL-001", Date: "2026-08-05",
				VendorID: "globex", VendorName: "Globex Supplies",
				Total: amt("400"),
			},
		},
		SalesReturns: []ledger.SalesReturn{
			{
				ID: "sret1", Ref: "SRET-001", Date: "2026-08-10",
				CustomerID: "acme", CustomerName: "Acme Retail", InvoiceID: "inv1",
				Total: amt("90"),
			},
		},
		Journals: []ledger.JournalVoucher{
			{
				ID: "jv1", Ref: "JV-001", Date: "2026-08-25", Narration: "Owner contribution",
				Lines: []ledger.JournalLine{
					{AccountID: "1010", Debit: amt("1000")},
					{AccountID: "3000", Credit: amt("1000")},
				},
			},
		},
		CustomerPayments: []ledger.CustomerPayment{
			{
				ID: "cp1", Ref: "RCPT-001", Date: "2026-08-14",
				CustomerID: "acme", CustomerName: "Acme Retail",
				Amount: amt("500"), Method: ledger.MethodBankTransfer, BankAccountID: "1010",
			},
		},
		VendorPayments: []ledger.VendorPayment{
			{
				ID: "vp1", Ref: "PMT-001", Date: "2026-08-18",
				VendorID: "globex", VendorName: "Globex Supplies",
				Amount: amt("400"), Method: ledger.MethodCash,
			},
		},
		CashReceipts: []ledger.CashVoucher{
			{
				ID: "crv1", Ref: "CRV-001", Date: "2026-08-22",
				Entries: []ledger.VoucherEntry{
					{AccountID: "4100", Narration: "Scrap sale", Amount: amt("35")},
				},
			},
		},
		BankPayments: []ledger.BankVoucher{
			{
				ID: "bpv1", Ref: "BPV-001", Date: "2026-08-20", BankAccountID: "1010",
				Entries: []ledger.VoucherEntry{
					{AccountID: "5100-1", Narration: "Office rent", Amount: amt("250")},
				},
			},
		},
	}
}

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex(testChart(), testSnapshot())
	require.Empty(t, idx.Warnings(), "fixture must expand cleanly")
	return idx
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, notes ...string) {
	t.Helper()
	assert.Truef(t, got.Equal(amt(want)), "want %s, got %s %s", want, got, strings.Join(notes, " "))
}

func TestBalanceStrictlyBefore(t *testing.T) {
	idx := testIndex(t)

	// Before the first invoice the receivable carries only its (zero)
	// static opening.
	b, err := idx.Balance("1100", "2026-08-03")
	require.NoError(t, err)
	assertAmount(t, "0", b)

	b, err = idx.Balance("1100", "2026-08-04")
	require.NoError(t, err)
	assertAmount(t, "930", b)

	// Unbounded cutoff folds everything.
	b, err = idx.Balance("1100", "")
	require.NoError(t, err)
	assertAmount(t, "540", b)
}

func TestBalanceUnknownAccount(t *testing.T) {
	idx := testIndex(t)

	_, err := idx.Balance("ghost", "")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestBalanceCreditNormal(t *testing.T) {
	idx := testIndex(t)

	// Sales is credit-normal: invoices raise it, the return lowers it.
	b, err := idx.Balance("4000", "")
	require.NoError(t, err)
	assertAmount(t, "1040", b)

	// Payable nets to zero after the vendor payment.
	b, err = idx.Balance("2000", "")
	require.NoError(t, err)
	assertAmount(t, "0", b)
}

func TestBalanceOpeningBalances(t *testing.T) {
	idx := testIndex(t)

	b, err := idx.Balance("1000", "")
	require.NoError(t, err)
	assertAmount(t, "135", b, "cash: opening minus vendor payment plus receipt voucher")

	b, err = idx.Balance("1010", "")
	require.NoError(t, err)
	assertAmount(t, "2250", b, "bank: opening plus customer payment, rent, capital")
}

func TestRebuildIsDeterministic(t *testing.T) {
	a := NewIndex(testChart(), testSnapshot())
	b := NewIndex(testChart(), testSnapshot())

	for _, code := range []string{"1000", "1010", "1100", "2000", "3000", "4000", "5000"} {
		ba, err := a.Balance(code, "")
		require.NoError(t, err)
		bb, err := b.Balance(code, "")
		require.NoError(t, err)
		assert.True(t, ba.Equal(bb), "account %s", code)
	}
}

func TestStatementReconciles(t *testing.T) {
	idx := testIndex(t)

	st, err := idx.Statement("1100", "2026-08-04", "2026-08-31")
	require.NoError(t, err)

	// Opening is derived from everything before the period start.
	assertAmount(t, "930", st.OpeningBalance)
	require.Len(t, st.Lines, 3)

	assert.Equal(t, ledger.Date("2026-08-07"), st.Lines[0].Date)
	assert.Equal(t, ledger.SourceRef{Kind: ledger.KindInvoice, ID: "inv2"}, st.Lines[0].Source)
	assert.Equal(t, ledger.SourceRef{Kind: ledger.KindSalesReturn, ID: "sret1"}, st.Lines[1].Source)
	assert.Equal(t, ledger.SourceRef{Kind: ledger.KindCustomerPayment, ID: "cp1"}, st.Lines[2].Source)

	// Running balance on the last line is the closing balance, and the
	// closing reconciles opening plus period movement.
	assertAmount(t, "540", st.ClosingBalance)
	assert.True(t, st.Lines[len(st.Lines)-1].Balance.Equal(st.ClosingBalance))
	assertAmount(t, "200", st.TotalDebit)
	assertAmount(t, "590", st.TotalCredit)
	want := st.OpeningBalance.Add(st.TotalDebit).Sub(st.TotalCredit)
	assert.True(t, st.ClosingBalance.Equal(want))
}

func TestStatementUnboundedFrom(t *testing.T) {
	idx := testIndex(t)

	st, err := idx.Statement("1010", "", "")
	require.NoError(t, err)

	assertAmount(t, "1000", st.OpeningBalance, "static opening, nothing double counted")
	require.Len(t, st.Lines, 3)
	assertAmount(t, "2250", st.ClosingBalance)
}

func TestStatementUnknownAccount(t *testing.T) {
	idx := testIndex(t)

	_, err := idx.Statement("ghost", "", "")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestPostingsSortedByDate(t *testing.T) {
	idx := testIndex(t)

	ps := idx.Postings("1100")
	require.Len(t, ps, 4)
	for i := 1; i < len(ps); i++ {
		assert.LessOrEqual(t, string(ps[i-1].Date), string(ps[i].Date))
	}
}

func TestDocumentLookup(t *testing.T) {
	idx := testIndex(t)

	doc, ok := idx.Document(ledger.SourceRef{Kind: ledger.KindInvoice, ID: "inv1"})
	require.True(t, ok)
	assert.Equal(t, "INV-001", doc.(*ledger.Invoice).Ref)

	doc, ok = idx.Document(ledger.SourceRef{Kind: ledger.KindBankPayment, ID: "bpv1"})
	require.True(t, ok)
	assert.Equal(t, "BPV-001", doc.(*ledger.BankVoucher).Ref)

	_, ok = idx.Document(ledger.SourceRef{Kind: ledger.KindInvoice, ID: "ghost"})
	assert.False(t, ok)
}

func TestMissingRoleWarnsAndSkips(t *testing.T) {
	// A chart with no sales role: the invoice's credit leg cannot post.
	accounts := ledger.DefaultChart()
	for i := range accounts {
		if accounts[i].Role == ledger.RoleSales {
			accounts[i].Role = ledger.RoleNone
		}
	}
	snap := &ledger.Snapshot{Invoices: testSnapshot().Invoices[:1]}
	idx := NewIndex(ledger.NewChart(accounts), snap)

	warnings := idx.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, "out of balance")
	assert.Contains(t, warnings[1].Message, "sales_revenue")

	// The debit leg still posted, so the books render regardless.
	b, err := idx.Balance("1100", "")
	require.NoError(t, err)
	assertAmount(t, "930", b)
}

func TestUnbalancedJournalWarns(t *testing.T) {
	snap := &ledger.Snapshot{
		Journals: []ledger.JournalVoucher{{
			ID: "jv-bad", Ref: "JV-BAD", Date: "2026-08-01",
			Lines: []ledger.JournalLine{
				{AccountID: "1000", Debit: amt("100")},
				{AccountID: "3000", Credit: amt("60")},
			},
		}},
	}
	idx := NewIndex(testChart(), snap)

	warnings := idx.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.SourceRef{Kind: ledger.KindJournalVoucher, ID: "jv-bad"}, warnings[0].Source)
	assert.Contains(t, warnings[0].Message, "out of balance by 40.00")
}

func TestNilSnapshot(t *testing.T) {
	idx := NewIndex(testChart(), nil)

	assert.Empty(t, idx.Warnings())
	b, err := idx.Balance("1000", "")
	require.NoError(t, err)
	assertAmount(t, "500", b, "opening balances survive an empty book")
}
