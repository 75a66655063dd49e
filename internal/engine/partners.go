package engine

import (
	"sort"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// PartnerRow is one customer's or vendor's position over the period:
// documents raised, returns, payments, and the outstanding remainder.
type PartnerRow struct {
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Returns     decimal.Decimal `json:"returns"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type PartnerSummary struct {
	From ledger.Date  `json:"from,omitempty"`
	To   ledger.Date  `json:"to,omitempty"`
	Rows []PartnerRow `json:"rows"`

	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type partnerAgg struct {
	rows  map[string]*PartnerRow
	order []string
}

func newPartnerAgg() *partnerAgg {
	return &partnerAgg{rows: make(map[string]*PartnerRow)}
}

func (a *partnerAgg) row(id, name string) *PartnerRow {
	if id == "" {
		id = name
	}
	r, ok := a.rows[id]
	if !ok {
		r = &PartnerRow{PartnerID: id, PartnerName: name}
		a.rows[id] = r
		a.order = append(a.order, id)
	}
	return r
}

func (a *partnerAgg) summary(from, to ledger.Date) *PartnerSummary {
	s := &PartnerSummary{From: from, To: to}
	for _, id := range a.order {
		r := a.rows[id]
		r.Outstanding = r.Invoiced.Sub(r.Returns).Sub(r.Paid)
		s.Rows = append(s.Rows, *r)
		s.TotalInvoiced = s.TotalInvoiced.Add(r.Invoiced)
		s.TotalOutstanding = s.TotalOutstanding.Add(r.Outstanding)
	}
	sort.SliceStable(s.Rows, func(i, j int) bool {
		return s.Rows[i].Outstanding.GreaterThan(s.Rows[j].Outstanding)
	})
	return s
}

// Receivables summarizes per customer what was invoiced, returned, and paid
// in [from, to], sorted by outstanding balance descending.
func (idx *Index) Receivables(from, to ledger.Date) *PartnerSummary {
	agg := newPartnerAgg()
	snap := idx.snap
	for i := range snap.Invoices {
		inv := &snap.Invoices[i]
		if !inv.Date.Between(from, to) {
			continue
		}
		r := agg.row(inv.CustomerID, inv.CustomerName)
		r.Invoiced = r.Invoiced.Add(inv.Total)
	}
	for i := range snap.SalesReturns {
		ret := &snap.SalesReturns[i]
		if !ret.Date.Between(from, to) {
			continue
		}
		r := agg.row(ret.CustomerID, ret.CustomerName)
		r.Returns = r.Returns.Add(ret.Total)
	}
	for i := range snap.CustomerPayments {
		p := &snap.CustomerPayments[i]
		if !p.Date.Between(from, to) {
			continue
		}
		r := agg.row(p.CustomerID, p.CustomerName)
		r.Paid = r.Paid.Add(p.Amount)
	}
	return agg.summary(from, to)
}

// Payables is the vendor-side mirror of Receivables.
func (idx *Index) Payables(from, to ledger.Date) *PartnerSummary {
	agg := newPartnerAgg()
	snap := idx.snap
	for i := range snap.Bills {
		b := &snap.Bills[i]
		if !b.Date.Between(from, to) {
			continue
		}
		r := agg.row(b.VendorID, b.VendorName)
		r.Invoiced = r.Invoiced.Add(b.Total)
	}
	for i := range snap.PurchaseReturns {
		ret := &snap.PurchaseReturns[i]
		if !ret.Date.Between(from, to) {
			continue
		}
		r := agg.row(ret.VendorID, ret.VendorName)
		r.Returns = r.Returns.Add(ret.Total)
	}
	for i := range snap.VendorPayments {
		p := &snap.VendorPayments[i]
		if !p.Date.Between(from, to) {
			continue
		}
		r := agg.row(p.VendorID, p.VendorName)
		r.Paid = r.Paid.Add(p.Amount)
	}
	return agg.summary(from, to)
}
