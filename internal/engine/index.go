package engine

import (
	"fmt"
	"sort"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// Index is the shared posting index built once per snapshot: every document
// expanded into postings, grouped by account and sorted by date. All balance
// and report computations query it, so every report in a render cycle sees
// the same expansion of the same snapshot.
type Index struct {
	chart     *ledger.Chart
	snap      *ledger.Snapshot
	byAccount map[string][]Posting
	bySource  map[ledger.SourceRef]decimal.Decimal
	warnings  []Warning
}

// NewIndex expands the snapshot against the chart. The index is immutable;
// after any snapshot mutation the caller rebuilds it from scratch rather
// than patching balances incrementally.
func NewIndex(chart *ledger.Chart, snap *ledger.Snapshot) *Index {
	if snap == nil {
		snap = &ledger.Snapshot{}
	}
	x := &expander{chart: chart}
	x.snapshot(snap)

	idx := &Index{
		chart:     chart,
		snap:      snap,
		byAccount: make(map[string][]Posting),
		bySource:  make(map[ledger.SourceRef]decimal.Decimal),
		warnings:  x.warnings,
	}
	for _, p := range x.postings {
		idx.byAccount[p.AccountID] = append(idx.byAccount[p.AccountID], p)
		idx.bySource[p.Source] = idx.bySource[p.Source].Add(p.Debit).Sub(p.Credit)
	}
	for id := range idx.byAccount {
		ps := idx.byAccount[id]
		sort.SliceStable(ps, func(i, j int) bool {
			if ps[i].Date != ps[j].Date {
				return ps[i].Date < ps[j].Date
			}
			return ps[i].Ref < ps[j].Ref
		})
	}

	// A document whose postings do not net to zero across all accounts is
	// out of balance. Flagged, not rejected: the books still render.
	for src, net := range idx.bySource {
		if !net.IsZero() {
			idx.warnings = append(idx.warnings, Warning{
				Source:  src,
				Message: fmt.Sprintf("document is out of balance by %s", net.StringFixed(2)),
			})
		}
	}
	sort.Slice(idx.warnings, func(i, j int) bool {
		if idx.warnings[i].Source.ID != idx.warnings[j].Source.ID {
			return idx.warnings[i].Source.ID < idx.warnings[j].Source.ID
		}
		return idx.warnings[i].Message < idx.warnings[j].Message
	})
	return idx
}

func (idx *Index) Chart() *ledger.Chart {
	return idx.chart
}

func (idx *Index) Snapshot() *ledger.Snapshot {
	return idx.snap
}

// Document resolves a drilldown reference back to its source document.
func (idx *Index) Document(ref ledger.SourceRef) (any, bool) {
	switch ref.Kind {
	case ledger.KindInvoice:
		for i := range idx.snap.Invoices {
			if idx.snap.Invoices[i].ID == ref.ID {
				return &idx.snap.Invoices[i], true
			}
		}
	case ledger.KindPurchaseBill:
		for i := range idx.snap.Bills {
			if idx.snap.Bills[i].ID == ref.ID {
				return &idx.snap.Bills[i], true
			}
		}
	case ledger.KindSalesReturn:
		for i := range idx.snap.SalesReturns {
			if idx.snap.SalesReturns[i].ID == ref.ID {
				return &idx.snap.SalesReturns[i], true
			}
		}
	case ledger.KindPurchaseReturn:
		for i := range idx.snap.PurchaseReturns {
			if idx.snap.PurchaseReturns[i].ID == ref.ID {
				return &idx.snap.PurchaseReturns[i], true
			}
		}
	case ledger.KindJournalVoucher:
		for i := range idx.snap.Journals {
			if idx.snap.Journals[i].ID == ref.ID {
				return &idx.snap.Journals[i], true
			}
		}
	case ledger.KindCustomerPayment:
		for i := range idx.snap.CustomerPayments {
			if idx.snap.CustomerPayments[i].ID == ref.ID {
				return &idx.snap.CustomerPayments[i], true
			}
		}
	case ledger.KindVendorPayment:
		for i := range idx.snap.VendorPayments {
			if idx.snap.VendorPayments[i].ID == ref.ID {
				return &idx.snap.VendorPayments[i], true
			}
		}
	case ledger.KindCashPayment:
		for i := range idx.snap.CashPayments {
			if idx.snap.CashPayments[i].ID == ref.ID {
				return &idx.snap.CashPayments[i], true
			}
		}
	case ledger.KindCashReceipt:
		for i := range idx.snap.CashReceipts {
			if idx.snap.CashReceipts[i].ID == ref.ID {
				return &idx.snap.CashReceipts[i], true
			}
		}
	case ledger.KindBankPayment:
		for i := range idx.snap.BankPayments {
			if idx.snap.BankPayments[i].ID == ref.ID {
				return &idx.snap.BankPayments[i], true
			}
		}
	case ledger.KindBankReceipt:
		for i := range idx.snap.BankReceipts {
			if idx.snap.BankReceipts[i].ID == ref.ID {
				return &idx.snap.BankReceipts[i], true
			}
		}
	}
	return nil, false
}

// Postings returns the account's postings in date order.
func (idx *Index) Postings(accountID string) []Posting {
	return idx.byAccount[accountID]
}

// Warnings lists every document the expansion could not post faithfully.
func (idx *Index) Warnings() []Warning {
	return idx.warnings
}

// Balance computes the account's balance as of a date: the static opening
// balance plus every posting dated strictly before asOf, folded in the
// account's natural sign. An unbounded asOf folds everything. Unknown
// accounts are an explicit error so callers can tell "zero balance" from
// "no such account".
func (idx *Index) Balance(accountID string, asOf ledger.Date) (decimal.Decimal, error) {
	acct, ok := idx.chart.ByID(accountID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, accountID)
	}
	debitNormal := acct.DebitNormal()

	balance := acct.OpeningBalance
	for _, p := range idx.byAccount[accountID] {
		if !p.Date.Before(asOf) {
			break
		}
		balance = balance.Add(p.Signed(debitNormal))
	}
	return balance, nil
}

// closingBalance folds the account through the end of the given day: the
// static opening plus every posting dated on or before through.
func (idx *Index) closingBalance(accountID string, through ledger.Date) (decimal.Decimal, error) {
	acct, ok := idx.chart.ByID(accountID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, accountID)
	}
	debitNormal := acct.DebitNormal()

	balance := acct.OpeningBalance
	for _, p := range idx.byAccount[accountID] {
		if !p.Date.Between("", through) {
			break
		}
		balance = balance.Add(p.Signed(debitNormal))
	}
	return balance, nil
}

// periodTotals sums the account's debit and credit columns over [from, to]
// inclusive.
func (idx *Index) periodTotals(accountID string, from, to ledger.Date) (dr, cr decimal.Decimal) {
	for _, p := range idx.byAccount[accountID] {
		if !p.Date.Between(from, to) {
			continue
		}
		dr = dr.Add(p.Debit)
		cr = cr.Add(p.Credit)
	}
	return dr, cr
}
