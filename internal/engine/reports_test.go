package engine

import (
	"testing"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialBalanceCloses(t *testing.T) {
	idx := testIndex(t)

	tb := idx.TrialBalance("2026-08-01", "2026-08-31")
	assert.True(t, tb.Balanced)
	assertAmount(t, "3575", tb.TotalRow.ClosingDr)
	assertAmount(t, "3575", tb.TotalRow.ClosingCr)
	assertAmount(t, "1500", tb.TotalRow.OpeningDr)
	assertAmount(t, "1500", tb.TotalRow.OpeningCr)
	assertAmount(t, "3805", tb.TotalRow.PeriodDr)
	assertAmount(t, "3805", tb.TotalRow.PeriodCr)

	// Accounts zero in all six columns are dropped; accounts whose period
	// movement nets to zero stay.
	codes := make(map[string]TrialBalanceRow)
	for _, r := range tb.Rows {
		codes[r.AccountCode] = r
	}
	require.Len(t, tb.Rows, 9)
	assert.NotContains(t, codes, "1200")
	assert.NotContains(t, codes, "5100", "group accounts never appear")

	ap := codes["2000"]
	assertAmount(t, "400", ap.PeriodDr)
	assertAmount(t, "400", ap.PeriodCr)
	assertAmount(t, "0", ap.ClosingDr)
	assertAmount(t, "0", ap.ClosingCr)

	// A negative-against-nature balance flips columns: sales sits in the
	// credit column, receivable in the debit column.
	assertAmount(t, "1040", codes["4000"].ClosingCr)
	assertAmount(t, "540", codes["1100"].ClosingDr)
}

func TestTrialBalanceUnboundedPeriod(t *testing.T) {
	idx := testIndex(t)

	tb := idx.TrialBalance("", "")
	assert.True(t, tb.Balanced)
	assertAmount(t, "3575", tb.TotalRow.ClosingDr, "opening column is static, nothing double counted")
	assertAmount(t, "1500", tb.TotalRow.OpeningDr)
}

func TestLedgerSummary(t *testing.T) {
	idx := testIndex(t)

	sum := idx.LedgerSummary("2026-08-01", "2026-08-31")
	assert.True(t, sum.TotalDebit.Equal(sum.TotalCredit), "every posting has an equal counter-posting")
	assertAmount(t, "3805", sum.TotalDebit)

	var ar SummaryRow
	for _, r := range sum.Rows {
		if r.AccountCode == "1100" {
			ar = r
		}
	}
	assertAmount(t, "1130", ar.Debit)
	assertAmount(t, "590", ar.Credit)
	assertAmount(t, "540", ar.NetChange)
	assert.Equal(t, ledger.TypeAsset, ar.Type)
}

func TestProfitAndLoss(t *testing.T) {
	idx := testIndex(t)

	pl := idx.ProfitAndLoss("2026-08-01", "2026-08-31")
	require.Len(t, pl.Revenue, 2)
	require.Len(t, pl.Expenses, 2)
	assertAmount(t, "1075", pl.TotalRevenue)
	assertAmount(t, "650", pl.TotalExpense)
	assertAmount(t, "425", pl.NetProfit)

	// The sales return nets against revenue rather than showing as an
	// expense.
	assert.Equal(t, "4000", pl.Revenue[0].AccountCode)
	assertAmount(t, "1040", pl.Revenue[0].Amount)
}

func TestBalanceSheetBalances(t *testing.T) {
	idx := testIndex(t)

	bs := idx.BalanceSheet("2026-08-31")
	assert.True(t, bs.Balanced)
	assertAmount(t, "2925", bs.TotalAssets)
	assertAmount(t, "2925", bs.TotalLiabEquity)

	// Undistributed profit shows as a synthetic equity row.
	last := bs.Equity.Rows[len(bs.Equity.Rows)-1]
	assert.Equal(t, "Current Period Earnings", last.AccountName)
	assertAmount(t, "425", last.Balance)
}

func TestBalanceSheetCutoffInclusive(t *testing.T) {
	idx := testIndex(t)

	// The invoice dated on the cutoff day is included.
	bs := idx.BalanceSheet("2026-08-03")
	assert.True(t, bs.Balanced)
	assertAmount(t, "2430", bs.TotalAssets)

	var ar BalanceSheetRow
	for _, r := range bs.Assets.Rows {
		if r.AccountCode == "1100" {
			ar = r
		}
	}
	assertAmount(t, "930", ar.Balance)
}

func TestBalanceSheetGroupRollup(t *testing.T) {
	accounts := ledger.DefaultChart()
	accounts = append(accounts, ledger.Account{
		ID: "1300-1", Code: "1300-1", Name: "Vehicles", Type: ledger.TypeAsset,
		SubType: ledger.SubFixedAsset, ParentCode: "1300",
		OpeningBalance: amt("5000"), Status: ledger.StatusActive, IsPosting: true,
	})
	for i := range accounts {
		if accounts[i].Code == "1300" {
			accounts[i].IsPosting = false
		}
		if accounts[i].Code == "3000" {
			accounts[i].OpeningBalance = amt("5000")
		}
	}
	idx := NewIndex(ledger.NewChart(accounts), nil)

	bs := idx.BalanceSheet("")
	assert.True(t, bs.Balanced)

	var group, child BalanceSheetRow
	for _, r := range bs.Assets.Rows {
		switch r.AccountCode {
		case "1300":
			group = r
		case "1300-1":
			child = r
		}
	}
	assert.True(t, group.IsGroup)
	assert.Equal(t, 0, group.Depth)
	assertAmount(t, "5000", group.Balance, "group rows carry the subtree rollup")
	assert.Equal(t, 1, child.Depth)
	assertAmount(t, "5000", child.Balance)
}

func TestBalanceSheetFoldsRevenueOpenings(t *testing.T) {
	// A static opening on a revenue account is undistributed profit too; it
	// must reach the earnings row even with no documents posted.
	accounts := ledger.DefaultChart()
	for i := range accounts {
		if accounts[i].Code == "4000" {
			accounts[i].OpeningBalance = amt("150")
		}
		if accounts[i].Code == "1000" {
			accounts[i].OpeningBalance = amt("150")
		}
	}
	idx := NewIndex(ledger.NewChart(accounts), nil)

	bs := idx.BalanceSheet("")
	assert.True(t, bs.Balanced)
	assertAmount(t, "150", bs.TotalAssets)

	last := bs.Equity.Rows[len(bs.Equity.Rows)-1]
	assert.Equal(t, "Current Period Earnings", last.AccountName)
	assertAmount(t, "150", last.Balance)
}

func TestReceivables(t *testing.T) {
	idx := testIndex(t)

	ps := idx.Receivables("2026-08-01", "2026-08-31")
	require.Len(t, ps.Rows, 2)

	// Sorted by outstanding descending.
	assert.Equal(t, "Acme Retail", ps.Rows[0].PartnerName)
	assertAmount(t, "930", ps.Rows[0].Invoiced)
	assertAmount(t, "90", ps.Rows[0].Returns)
	assertAmount(t, "500", ps.Rows[0].Paid)
	assertAmount(t, "340", ps.Rows[0].Outstanding)

	assert.Equal(t, "Bluebird Cafe", ps.Rows[1].PartnerName)
	assertAmount(t, "200", ps.Rows[1].Outstanding)

	assertAmount(t, "1130", ps.TotalInvoiced)
	assertAmount(t, "540", ps.TotalOutstanding)
}

func TestPayables(t *testing.T) {
	idx := testIndex(t)

	ps := idx.Payables("2026-08-01", "2026-08-31")
	require.Len(t, ps.Rows, 1)
	assert.Equal(t, "Globex Supplies", ps.Rows[0].PartnerName)
	assertAmount(t, "400", ps.Rows[0].Invoiced)
	assertAmount(t, "400", ps.Rows[0].Paid)
	assertAmount(t, "0", ps.Rows[0].Outstanding)
}

func TestPartnerPeriodFilter(t *testing.T) {
	idx := testIndex(t)

	// Only the first invoice falls in the window; the payment and return
	// are later.
	ps := idx.Receivables("2026-08-01", "2026-08-05")
	require.Len(t, ps.Rows, 1)
	assertAmount(t, "930", ps.Rows[0].Invoiced)
	assertAmount(t, "0", ps.Rows[0].Paid)
	assertAmount(t, "930", ps.Rows[0].Outstanding)
}

func TestSalesByCustomer(t *testing.T) {
	idx := testIndex(t)

	sr := idx.SalesByCustomer("2026-08-01", "2026-08-31")
	require.Len(t, sr.Rows, 2)
	assert.Equal(t, "Acme Retail", sr.Rows[0].Name)
	assert.Equal(t, 1, sr.Rows[0].Count)
	assertAmount(t, "930", sr.Rows[0].Total)
	assertAmount(t, "1130", sr.GrandTotal)
}

func TestSalesByItem(t *testing.T) {
	idx := testIndex(t)

	sr := idx.SalesByItem("2026-08-01", "2026-08-31")
	require.Len(t, sr.Rows, 2)

	assert.Equal(t, "widget-a", sr.Rows[0].Key)
	assertAmount(t, "12", sr.Rows[0].Quantity)
	assert.Equal(t, 2, sr.Rows[0].Count)
	assertAmount(t, "650", sr.Rows[0].Total)

	assert.Equal(t, "widget-b", sr.Rows[1].Key)
	assertAmount(t, "480", sr.Rows[1].Total)
	assertAmount(t, "1130", sr.GrandTotal)
}

func TestCheckDocument(t *testing.T) {
	chart := testChart()

	inv := &ledger.Invoice{ID: "i", Ref: "INV-9", Date: "2026-08-01", CustomerName: "Acme", Total: amt("100")}
	assert.Empty(t, CheckDocument(chart, ledger.KindInvoice, inv))

	unbalanced := &ledger.JournalVoucher{
		ID: "j", Ref: "JV-9", Date: "2026-08-01",
		Lines: []ledger.JournalLine{
			{AccountID: "1000", Debit: amt("100")},
			{AccountID: "3000", Credit: amt("80")},
		},
	}
	warnings := CheckDocument(chart, ledger.KindJournalVoucher, unbalanced)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "out of balance by 20.00")

	toGroup := &ledger.JournalVoucher{
		ID: "j2", Ref: "JV-10", Date: "2026-08-01",
		Lines: []ledger.JournalLine{
			{AccountID: "5100", Debit: amt("50")},
			{AccountID: "1000", Credit: amt("50")},
		},
	}
	warnings = CheckDocument(chart, ledger.KindJournalVoucher, toGroup)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "group account")

	toNowhere := &ledger.JournalVoucher{
		ID: "j3", Ref: "JV-11", Date: "2026-08-01",
		Lines: []ledger.JournalLine{
			{AccountID: "ghost", Debit: amt("50")},
			{AccountID: "1000", Credit: amt("50")},
		},
	}
	warnings = CheckDocument(chart, ledger.KindJournalVoucher, toNowhere)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "unknown account")

	warnings = CheckDocument(chart, "credit_note", nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "unknown document kind")

	// A kind/document mismatch degrades to a warning, same as an unknown kind.
	warnings = CheckDocument(chart, ledger.KindInvoice, unbalanced)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "does not match kind")
}
