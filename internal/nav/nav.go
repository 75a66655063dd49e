// Package nav tracks drilldown navigation through the reporting screens:
// report summary, single-account ledger, and source document. It is a plain
// state machine with a history stack so "back" unwinds exactly the path the
// user drilled down.
package nav

import "github.com/microbooks/microbooks/internal/ledger"

// ReportTab identifies a report on the hub.
type ReportTab string

const (
	TabTrialBalance    ReportTab = "trial_balance"
	TabLedgerSummary   ReportTab = "ledger_summary"
	TabProfitAndLoss   ReportTab = "profit_and_loss"
	TabBalanceSheet    ReportTab = "balance_sheet"
	TabReceivables     ReportTab = "receivables"
	TabPayables        ReportTab = "payables"
	TabSalesByCustomer ReportTab = "sales_by_customer"
	TabSalesByItem     ReportTab = "sales_by_item"
)

var AllTabs = []ReportTab{
	TabTrialBalance,
	TabLedgerSummary,
	TabProfitAndLoss,
	TabBalanceSheet,
	TabReceivables,
	TabPayables,
	TabSalesByCustomer,
	TabSalesByItem,
}

// Label returns the display name of a report tab.
func Label(t ReportTab) string {
	switch t {
	case TabTrialBalance:
		return "Trial Balance"
	case TabLedgerSummary:
		return "GL Summary"
	case TabProfitAndLoss:
		return "Profit & Loss"
	case TabBalanceSheet:
		return "Balance Sheet"
	case TabReceivables:
		return "Receivables"
	case TabPayables:
		return "Payables"
	case TabSalesByCustomer:
		return "Sales by Customer"
	case TabSalesByItem:
		return "Sales by Item"
	default:
		return string(t)
	}
}

// Kind tags the navigator's current screen.
type Kind int

const (
	KindSummary Kind = iota
	KindLedger
	KindSource
)

// State is the tagged union of drilldown positions. Exactly the fields for
// its Kind are meaningful.
type State struct {
	Kind      Kind
	Tab       ReportTab
	AccountID string
	Source    ledger.SourceRef
}

// Navigator holds the current state and the history stack behind it.
type Navigator struct {
	current State
	stack   []State
}

// New starts at the given report's summary with an empty history.
func New(tab ReportTab) *Navigator {
	return &Navigator{current: State{Kind: KindSummary, Tab: tab}}
}

func (n *Navigator) Current() State {
	return n.current
}

// Depth is the number of drilldowns behind the current screen.
func (n *Navigator) Depth() int {
	return len(n.stack)
}

// SwitchTab resets to another report's summary and clears history.
func (n *Navigator) SwitchTab(tab ReportTab) {
	n.stack = n.stack[:0]
	n.current = State{Kind: KindSummary, Tab: tab}
}

// DrillLedger pushes the current screen and moves to an account ledger.
func (n *Navigator) DrillLedger(accountID string) {
	n.stack = append(n.stack, n.current)
	n.current = State{Kind: KindLedger, Tab: n.current.Tab, AccountID: accountID}
}

// DrillSource pushes the current screen and moves to a source document.
func (n *Navigator) DrillSource(ref ledger.SourceRef) {
	n.stack = append(n.stack, n.current)
	n.current = State{Kind: KindSource, Tab: n.current.Tab, Source: ref}
}

// Back pops one level of history. At the hub (empty stack) it reports false
// so the caller can leave the reporting screens entirely.
func (n *Navigator) Back() bool {
	if len(n.stack) == 0 {
		return false
	}
	n.current = n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	return true
}
