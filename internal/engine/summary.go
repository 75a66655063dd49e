package engine

import (
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// SummaryRow is one account's total debit and credit movement over the
// period, across every document kind, with the net change in the account's
// natural direction.
type SummaryRow struct {
	AccountID   string             `json:"account_id"`
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	Type        ledger.AccountType `json:"type"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	NetChange   decimal.Decimal    `json:"net_change"`
}

type LedgerSummary struct {
	From        ledger.Date     `json:"from,omitempty"`
	To          ledger.Date     `json:"to,omitempty"`
	Rows        []SummaryRow    `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// LedgerSummary totals each account's debits and credits over [from, to].
// Accounts with no movement are dropped.
func (idx *Index) LedgerSummary(from, to ledger.Date) *LedgerSummary {
	sum := &LedgerSummary{From: from, To: to}

	for _, acct := range idx.chart.Accounts() {
		dr, cr := idx.periodTotals(acct.ID, from, to)
		if dr.IsZero() && cr.IsZero() {
			continue
		}
		net := dr.Sub(cr)
		if !acct.DebitNormal() {
			net = cr.Sub(dr)
		}
		sum.Rows = append(sum.Rows, SummaryRow{
			AccountID:   acct.ID,
			AccountCode: acct.Code,
			AccountName: acct.Name,
			Type:        acct.Type,
			Debit:       dr,
			Credit:      cr,
			NetChange:   net,
		})
		sum.TotalDebit = sum.TotalDebit.Add(dr)
		sum.TotalCredit = sum.TotalCredit.Add(cr)
	}
	return sum
}
