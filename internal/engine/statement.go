package engine

import (
	"fmt"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// StatementLine is one posted entry in an account ledger, with the running
// balance after it and the drilldown reference to the source document.
type StatementLine struct {
	Date      ledger.Date      `json:"date"`
	Narration string           `json:"narration"`
	Ref       string           `json:"ref"`
	Debit     decimal.Decimal  `json:"debit"`
	Credit    decimal.Decimal  `json:"credit"`
	Balance   decimal.Decimal  `json:"balance"`
	Source    ledger.SourceRef `json:"source"`
}

// Statement is the ordered ledger of one account over a period.
type Statement struct {
	AccountID      string          `json:"account_id"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	From           ledger.Date     `json:"from,omitempty"`
	To             ledger.Date     `json:"to,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Lines          []StatementLine `json:"lines"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// Statement builds the account's ledger for [from, to] inclusive. The
// opening balance is derived: static opening plus all postings before from,
// so the running balance always reconciles with Balance at any cutoff. Every
// document kind that touches the account appears.
func (idx *Index) Statement(accountID string, from, to ledger.Date) (*Statement, error) {
	acct, ok := idx.chart.ByID(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, accountID)
	}
	// An unbounded from means the statement shows the full history, so the
	// opening is just the static opening balance.
	opening := acct.OpeningBalance
	if from != "" {
		derived, err := idx.Balance(accountID, from)
		if err != nil {
			return nil, err
		}
		opening = derived
	}

	st := &Statement{
		AccountID:      acct.ID,
		AccountCode:    acct.Code,
		AccountName:    acct.Name,
		From:           from,
		To:             to,
		OpeningBalance: opening,
	}

	debitNormal := acct.DebitNormal()
	running := opening
	for _, p := range idx.byAccount[accountID] {
		if !p.Date.Between(from, to) {
			continue
		}
		running = running.Add(p.Signed(debitNormal))
		st.Lines = append(st.Lines, StatementLine{
			Date:      p.Date,
			Narration: p.Narration,
			Ref:       p.Ref,
			Debit:     p.Debit,
			Credit:    p.Credit,
			Balance:   running,
			Source:    p.Source,
		})
		st.TotalDebit = st.TotalDebit.Add(p.Debit)
		st.TotalCredit = st.TotalCredit.Add(p.Credit)
	}
	st.ClosingBalance = running
	return st, nil
}
