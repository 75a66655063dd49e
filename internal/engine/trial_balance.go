package engine

import (
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one posting account's opening, period, and closing
// columns, each split into debit and credit by the account's nature and the
// balance's sign.
type TrialBalanceRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	OpeningDr   decimal.Decimal `json:"opening_dr"`
	OpeningCr   decimal.Decimal `json:"opening_cr"`
	PeriodDr    decimal.Decimal `json:"period_dr"`
	PeriodCr    decimal.Decimal `json:"period_cr"`
	ClosingDr   decimal.Decimal `json:"closing_dr"`
	ClosingCr   decimal.Decimal `json:"closing_cr"`
}

type TrialBalance struct {
	From     ledger.Date       `json:"from,omitempty"`
	To       ledger.Date       `json:"to,omitempty"`
	Rows     []TrialBalanceRow `json:"rows"`
	TotalRow TrialBalanceRow   `json:"totals"`
	Balanced bool              `json:"balanced"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// splitByNature expresses a natural-sign balance as debit/credit columns: a
// positive balance sits in the account's normal column, a negative one in
// the opposite column.
func splitByNature(balance decimal.Decimal, debitNormal bool) (dr, cr decimal.Decimal) {
	if balance.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	if debitNormal == balance.IsPositive() {
		return balance.Abs(), decimal.Zero
	}
	return decimal.Zero, balance.Abs()
}

// TrialBalance lists every posting account with opening, period movement,
// and closing columns over [from, to]. Rows that are zero in all six columns
// are dropped. For a well-formed book the closing debit and credit totals
// agree; Balanced reports whether they do.
func (idx *Index) TrialBalance(from, to ledger.Date) *TrialBalance {
	tb := &TrialBalance{From: from, To: to, Warnings: idx.warnings}

	for _, acct := range idx.chart.Accounts() {
		if !acct.IsPosting {
			continue
		}
		debitNormal := acct.DebitNormal()

		opening := acct.OpeningBalance
		if from != "" {
			opening, _ = idx.Balance(acct.ID, from)
		}
		periodDr, periodCr := idx.periodTotals(acct.ID, from, to)

		closing := opening
		if debitNormal {
			closing = closing.Add(periodDr).Sub(periodCr)
		} else {
			closing = closing.Add(periodCr).Sub(periodDr)
		}

		row := TrialBalanceRow{
			AccountID:   acct.ID,
			AccountCode: acct.Code,
			AccountName: acct.Name,
			PeriodDr:    periodDr,
			PeriodCr:    periodCr,
		}
		row.OpeningDr, row.OpeningCr = splitByNature(opening, debitNormal)
		row.ClosingDr, row.ClosingCr = splitByNature(closing, debitNormal)

		if row.OpeningDr.IsZero() && row.OpeningCr.IsZero() &&
			periodDr.IsZero() && periodCr.IsZero() &&
			row.ClosingDr.IsZero() && row.ClosingCr.IsZero() {
			continue
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalRow.OpeningDr = tb.TotalRow.OpeningDr.Add(row.OpeningDr)
		tb.TotalRow.OpeningCr = tb.TotalRow.OpeningCr.Add(row.OpeningCr)
		tb.TotalRow.PeriodDr = tb.TotalRow.PeriodDr.Add(row.PeriodDr)
		tb.TotalRow.PeriodCr = tb.TotalRow.PeriodCr.Add(row.PeriodCr)
		tb.TotalRow.ClosingDr = tb.TotalRow.ClosingDr.Add(row.ClosingDr)
		tb.TotalRow.ClosingCr = tb.TotalRow.ClosingCr.Add(row.ClosingCr)
	}

	tb.Balanced = tb.TotalRow.ClosingDr.Equal(tb.TotalRow.ClosingCr)
	return tb
}
