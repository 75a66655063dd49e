package engine

import (
	"fmt"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// CheckDocument expands a single document against the chart and verifies
// its net effect across every account it touches sums to zero. Returns the
// violations as warnings; the caller decides whether to surface or store
// them, the document is never rejected here.
func CheckDocument(chart *ledger.Chart, kind ledger.SourceKind, doc any) []Warning {
	x := &expander{chart: chart}

	ok := true
	switch kind {
	case ledger.KindInvoice:
		var d *ledger.Invoice
		if d, ok = doc.(*ledger.Invoice); ok {
			x.invoice(d)
		}
	case ledger.KindPurchaseBill:
		var d *ledger.PurchaseBill
		if d, ok = doc.(*ledger.PurchaseBill); ok {
			x.bill(d)
		}
	case ledger.KindSalesReturn:
		var d *ledger.SalesReturn
		if d, ok = doc.(*ledger.SalesReturn); ok {
			x.salesReturn(d)
		}
	case ledger.KindPurchaseReturn:
		var d *ledger.PurchaseReturn
		if d, ok = doc.(*ledger.PurchaseReturn); ok {
			x.purchaseReturn(d)
		}
	case ledger.KindJournalVoucher:
		var d *ledger.JournalVoucher
		if d, ok = doc.(*ledger.JournalVoucher); ok {
			x.journal(d)
		}
	case ledger.KindCustomerPayment:
		var d *ledger.CustomerPayment
		if d, ok = doc.(*ledger.CustomerPayment); ok {
			x.customerPayment(d)
		}
	case ledger.KindVendorPayment:
		var d *ledger.VendorPayment
		if d, ok = doc.(*ledger.VendorPayment); ok {
			x.vendorPayment(d)
		}
	case ledger.KindCashPayment, ledger.KindCashReceipt:
		var d *ledger.CashVoucher
		if d, ok = doc.(*ledger.CashVoucher); ok {
			x.cashVoucher(d, kind)
		}
	case ledger.KindBankPayment, ledger.KindBankReceipt:
		var d *ledger.BankVoucher
		if d, ok = doc.(*ledger.BankVoucher); ok {
			x.bankVoucher(d, kind)
		}
	default:
		return []Warning{{Message: fmt.Sprintf("unknown document kind %q", kind)}}
	}
	if !ok {
		return []Warning{{Message: fmt.Sprintf("document %T does not match kind %q", doc, kind)}}
	}

	warnings := x.warnings
	net := decimal.Zero
	var src ledger.SourceRef
	for _, p := range x.postings {
		net = net.Add(p.Debit).Sub(p.Credit)
		src = p.Source
	}
	if !net.IsZero() {
		warnings = append(warnings, Warning{
			Source:  src,
			Message: fmt.Sprintf("document is out of balance by %s", net.StringFixed(2)),
		})
	}

	// Postings that reference unknown or non-posting accounts are the other
	// write-time hazard worth flagging.
	for _, p := range x.postings {
		acct, ok := chart.ByID(p.AccountID)
		if !ok {
			warnings = append(warnings, Warning{
				Source:  p.Source,
				Message: fmt.Sprintf("posting references unknown account %q", p.AccountID),
			})
			continue
		}
		if !acct.IsPosting {
			warnings = append(warnings, Warning{
				Source:  p.Source,
				Message: fmt.Sprintf("posting targets group account %s (%s)", acct.Code, acct.Name),
			})
		}
	}
	return warnings
}
