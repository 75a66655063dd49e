package engine

import (
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// PnLLine is one revenue or expense account's period movement in its
// natural direction.
type PnLLine struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

type ProfitAndLoss struct {
	From         ledger.Date     `json:"from,omitempty"`
	To           ledger.Date     `json:"to,omitempty"`
	Revenue      []PnLLine       `json:"revenue"`
	Expenses     []PnLLine       `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// ProfitAndLoss aggregates the period's movement on every revenue and
// expense account the documents actually posted to: revenue as net credit,
// expenses as net debit. Accounts with no movement are dropped.
func (idx *Index) ProfitAndLoss(from, to ledger.Date) *ProfitAndLoss {
	pl := &ProfitAndLoss{From: from, To: to}

	for _, acct := range idx.chart.Accounts() {
		if acct.Type != ledger.TypeRevenue && acct.Type != ledger.TypeExpense {
			continue
		}
		dr, cr := idx.periodTotals(acct.ID, from, to)
		if dr.IsZero() && cr.IsZero() {
			continue
		}
		line := PnLLine{
			AccountID:   acct.ID,
			AccountCode: acct.Code,
			AccountName: acct.Name,
		}
		if acct.Type == ledger.TypeRevenue {
			line.Amount = cr.Sub(dr)
			pl.Revenue = append(pl.Revenue, line)
			pl.TotalRevenue = pl.TotalRevenue.Add(line.Amount)
		} else {
			line.Amount = dr.Sub(cr)
			pl.Expenses = append(pl.Expenses, line)
			pl.TotalExpense = pl.TotalExpense.Add(line.Amount)
		}
	}

	pl.NetProfit = pl.TotalRevenue.Sub(pl.TotalExpense)
	return pl
}
