package engine

import (
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// BalanceSheetRow is one account in the hierarchical positions report.
// Depth is the indent level under its section; group (non-posting) rows
// carry the rollup of their subtree.
type BalanceSheetRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Depth       int             `json:"depth"`
	IsGroup     bool            `json:"is_group"`
	Balance     decimal.Decimal `json:"balance"`
}

type BalanceSheetSection struct {
	Type  ledger.AccountType `json:"type"`
	Label string             `json:"label"`
	Rows  []BalanceSheetRow  `json:"rows"`
	Total decimal.Decimal    `json:"total"`
}

type BalanceSheet struct {
	AsOf            ledger.Date         `json:"as_of,omitempty"`
	Assets          BalanceSheetSection `json:"assets"`
	Liabilities     BalanceSheetSection `json:"liabilities"`
	Equity          BalanceSheetSection `json:"equity"`
	TotalAssets     decimal.Decimal     `json:"total_assets"`
	TotalLiabEquity decimal.Decimal     `json:"total_liabilities_equity"`
	Balanced        bool                `json:"balanced"`
}

// BalanceSheet walks the asset, liability, and equity hierarchies by parent
// code, indenting by depth. Posting accounts show their derived balance as
// of the cutoff; group accounts show the subtree rollup. Control totals:
// assets against liabilities plus equity.
func (idx *Index) BalanceSheet(asOf ledger.Date) *BalanceSheet {
	bs := &BalanceSheet{
		AsOf:        asOf,
		Assets:      BalanceSheetSection{Type: ledger.TypeAsset, Label: ledger.TypeLabel(ledger.TypeAsset)},
		Liabilities: BalanceSheetSection{Type: ledger.TypeLiability, Label: ledger.TypeLabel(ledger.TypeLiability)},
		Equity:      BalanceSheetSection{Type: ledger.TypeEquity, Label: ledger.TypeLabel(ledger.TypeEquity)},
	}

	for _, root := range idx.chart.TopLevel() {
		var section *BalanceSheetSection
		switch root.Type {
		case ledger.TypeAsset:
			section = &bs.Assets
		case ledger.TypeLiability:
			section = &bs.Liabilities
		case ledger.TypeEquity:
			section = &bs.Equity
		default:
			continue
		}
		total := idx.walkPosition(section, root, 0, asOf)
		section.Total = section.Total.Add(total)
	}

	// Undistributed profit through the cutoff belongs to equity; without it
	// the equation cannot close while revenue or expense accounts carry any
	// balance. Closing balances, not period movement, so static openings on
	// revenue and expense accounts count too.
	earnings := decimal.Zero
	for _, acct := range idx.chart.Accounts() {
		switch acct.Type {
		case ledger.TypeRevenue:
			bal, _ := idx.closingBalance(acct.ID, asOf)
			earnings = earnings.Add(bal)
		case ledger.TypeExpense:
			bal, _ := idx.closingBalance(acct.ID, asOf)
			earnings = earnings.Sub(bal)
		}
	}
	if !earnings.IsZero() {
		bs.Equity.Rows = append(bs.Equity.Rows, BalanceSheetRow{
			AccountName: "Current Period Earnings",
			Balance:     earnings,
		})
		bs.Equity.Total = bs.Equity.Total.Add(earnings)
	}

	bs.TotalAssets = bs.Assets.Total
	bs.TotalLiabEquity = bs.Liabilities.Total.Add(bs.Equity.Total)
	bs.Balanced = bs.TotalAssets.Equal(bs.TotalLiabEquity)
	return bs
}

// walkPosition appends the account's row (and recursively its children) to
// the section and returns the subtree balance.
func (idx *Index) walkPosition(section *BalanceSheetSection, acct *ledger.Account, depth int, asOf ledger.Date) decimal.Decimal {
	row := BalanceSheetRow{
		AccountID:   acct.ID,
		AccountCode: acct.Code,
		AccountName: acct.Name,
		Depth:       depth,
		IsGroup:     !acct.IsPosting,
	}

	balance := decimal.Zero
	if acct.IsPosting {
		balance, _ = idx.closingBalance(acct.ID, asOf)
	}

	// Reserve the row slot before recursing so groups precede their children.
	section.Rows = append(section.Rows, row)
	slot := len(section.Rows) - 1

	for _, child := range idx.chart.Children(acct.Code) {
		balance = balance.Add(idx.walkPosition(section, child, depth+1, asOf))
	}
	section.Rows[slot].Balance = balance
	return balance
}
