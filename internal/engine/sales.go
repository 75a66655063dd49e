package engine

import (
	"sort"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// SalesRow is one group (customer or item) in a sales breakdown.
type SalesRow struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

type SalesReport struct {
	From       ledger.Date     `json:"from,omitempty"`
	To         ledger.Date     `json:"to,omitempty"`
	Rows       []SalesRow      `json:"rows"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type salesAgg struct {
	rows  map[string]*SalesRow
	order []string
}

func newSalesAgg() *salesAgg {
	return &salesAgg{rows: make(map[string]*SalesRow)}
}

func (a *salesAgg) row(key, name string) *SalesRow {
	if key == "" {
		key = name
	}
	r, ok := a.rows[key]
	if !ok {
		r = &SalesRow{Key: key, Name: name}
		a.rows[key] = r
		a.order = append(a.order, key)
	}
	return r
}

func (a *salesAgg) report(from, to ledger.Date) *SalesReport {
	s := &SalesReport{From: from, To: to}
	for _, key := range a.order {
		s.Rows = append(s.Rows, *a.rows[key])
		s.GrandTotal = s.GrandTotal.Add(a.rows[key].Total)
	}
	sort.SliceStable(s.Rows, func(i, j int) bool {
		return s.Rows[i].Total.GreaterThan(s.Rows[j].Total)
	})
	return s
}

// SalesByCustomer groups invoices in [from, to] by customer, descending by
// total.
func (idx *Index) SalesByCustomer(from, to ledger.Date) *SalesReport {
	agg := newSalesAgg()
	for i := range idx.snap.Invoices {
		inv := &idx.snap.Invoices[i]
		if !inv.Date.Between(from, to) {
			continue
		}
		r := agg.row(inv.CustomerID, inv.CustomerName)
		r.Count++
		r.Total = r.Total.Add(inv.Total)
	}
	return agg.report(from, to)
}

// SalesByItem folds invoice line items in [from, to] by item, descending by
// total.
func (idx *Index) SalesByItem(from, to ledger.Date) *SalesReport {
	agg := newSalesAgg()
	for i := range idx.snap.Invoices {
		inv := &idx.snap.Invoices[i]
		if !inv.Date.Between(from, to) {
			continue
		}
		for _, item := range inv.Items {
			r := agg.row(item.ItemID, item.Description)
			r.Count++
			r.Quantity = r.Quantity.Add(item.Quantity)
			r.Total = r.Total.Add(item.Amount())
		}
	}
	return agg.report(from, to)
}
