// Package engine is the computational core of the books: it expands every
// document kind into double-entry postings against the chart of accounts,
// indexes them per account, and derives balances, ledgers, and the aggregate
// reports from that one shared index.
package engine

import (
	"fmt"

	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// Posting is one debit or credit against a single account, produced by
// expanding a source document. Exactly one of Debit/Credit is non-zero.
type Posting struct {
	AccountID string           `json:"account_id"`
	Date      ledger.Date      `json:"date"`
	Ref       string           `json:"ref"`
	Narration string           `json:"narration"`
	Debit     decimal.Decimal  `json:"debit"`
	Credit    decimal.Decimal  `json:"credit"`
	Source    ledger.SourceRef `json:"source"`
}

// Signed returns the posting amount in the given nature's direction.
func (p Posting) Signed(debitNormal bool) decimal.Decimal {
	if debitNormal {
		return p.Debit.Sub(p.Credit)
	}
	return p.Credit.Sub(p.Debit)
}

// Warning flags a document the engine could not post faithfully: a missing
// role account or an out-of-balance expansion. Warnings never stop a report
// from rendering.
type Warning struct {
	Source  ledger.SourceRef `json:"source"`
	Message string           `json:"message"`
}

type expander struct {
	chart    *ledger.Chart
	postings []Posting
	warnings []Warning
}

func (x *expander) debit(accountID string, date ledger.Date, ref, narration string, amount decimal.Decimal, src ledger.SourceRef) {
	x.postings = append(x.postings, Posting{
		AccountID: accountID, Date: date, Ref: ref, Narration: narration,
		Debit: amount, Source: src,
	})
}

func (x *expander) credit(accountID string, date ledger.Date, ref, narration string, amount decimal.Decimal, src ledger.SourceRef) {
	x.postings = append(x.postings, Posting{
		AccountID: accountID, Date: date, Ref: ref, Narration: narration,
		Credit: amount, Source: src,
	})
}

// role resolves a structural account, recording a warning when the chart has
// none. The caller skips the posting in that case (lenient by design of the
// error policy: reports still render).
func (x *expander) role(r ledger.Role, src ledger.SourceRef) (string, bool) {
	a, ok := x.chart.RoleAccount(r)
	if !ok {
		x.warnings = append(x.warnings, Warning{
			Source:  src,
			Message: fmt.Sprintf("no account carries role %q, posting skipped", r),
		})
		return "", false
	}
	return a.ID, true
}

// settlementAccount picks the cash or bank side of a payment. Bank transfers
// prefer the payment's explicit bank account, falling back to the default
// bank role; cash payments hit the cash-in-hand role.
func (x *expander) settlementAccount(method ledger.PaymentMethod, bankAccountID string, src ledger.SourceRef) (string, bool) {
	if method == ledger.MethodBankTransfer {
		if bankAccountID != "" {
			return bankAccountID, true
		}
		return x.role(ledger.RoleBank, src)
	}
	return x.role(ledger.RoleCash, src)
}

func (x *expander) invoice(inv *ledger.Invoice) {
	src := ledger.SourceRef{Kind: ledger.KindInvoice, ID: inv.ID}
	narration := fmt.Sprintf("Invoice %s (%s)", inv.Ref, inv.CustomerName)
	if ar, ok := x.role(ledger.RoleReceivable, src); ok {
		x.debit(ar, inv.Date, inv.Ref, narration, inv.Total, src)
	}
	if sales, ok := x.role(ledger.RoleSales, src); ok {
		x.credit(sales, inv.Date, inv.Ref, narration, inv.Total, src)
	}
}

func (x *expander) salesReturn(r *ledger.SalesReturn) {
	src := ledger.SourceRef{Kind: ledger.KindSalesReturn, ID: r.ID}
	narration := fmt.Sprintf("Sales return %s (%s)", r.Ref, r.CustomerName)
	if sales, ok := x.role(ledger.RoleSales, src); ok {
		x.debit(sales, r.Date, r.Ref, narration, r.Total, src)
	}
	if ar, ok := x.role(ledger.RoleReceivable, src); ok {
		x.credit(ar, r.Date, r.Ref, narration, r.Total, src)
	}
}

func (x *expander) bill(b *ledger.PurchaseBill) {
	src := ledger.SourceRef{Kind: ledger.KindPurchaseBill, ID: b.ID}
	narration := fmt.Sprintf("Bill %s (%s)", b.Ref, b.VendorName)
	if cogs, ok := x.role(ledger.RoleCOGS, src); ok {
		x.debit(cogs, b.Date, b.Ref, narration, b.Total, src)
	}
	if ap, ok := x.role(ledger.RolePayable, src); ok {
		x.credit(ap, b.Date, b.Ref, narration, b.Total, src)
	}
}

func (x *expander) purchaseReturn(r *ledger.PurchaseReturn) {
	src := ledger.SourceRef{Kind: ledger.KindPurchaseReturn, ID: r.ID}
	narration := fmt.Sprintf("Purchase return %s (%s)", r.Ref, r.VendorName)
	if ap, ok := x.role(ledger.RolePayable, src); ok {
		x.debit(ap, r.Date, r.Ref, narration, r.Total, src)
	}
	if cogs, ok := x.role(ledger.RoleCOGS, src); ok {
		x.credit(cogs, r.Date, r.Ref, narration, r.Total, src)
	}
}

func (x *expander) journal(v *ledger.JournalVoucher) {
	src := ledger.SourceRef{Kind: ledger.KindJournalVoucher, ID: v.ID}
	for _, line := range v.Lines {
		narration := line.Narration
		if narration == "" {
			narration = v.Narration
		}
		x.postings = append(x.postings, Posting{
			AccountID: line.AccountID, Date: v.Date, Ref: v.Ref, Narration: narration,
			Debit: line.Debit, Credit: line.Credit, Source: src,
		})
	}
}

func (x *expander) customerPayment(p *ledger.CustomerPayment) {
	src := ledger.SourceRef{Kind: ledger.KindCustomerPayment, ID: p.ID}
	narration := fmt.Sprintf("Payment %s from %s", p.Ref, p.CustomerName)
	if settle, ok := x.settlementAccount(p.Method, p.BankAccountID, src); ok {
		x.debit(settle, p.Date, p.Ref, narration, p.Amount, src)
	}
	if ar, ok := x.role(ledger.RoleReceivable, src); ok {
		x.credit(ar, p.Date, p.Ref, narration, p.Amount, src)
	}
}

func (x *expander) vendorPayment(p *ledger.VendorPayment) {
	src := ledger.SourceRef{Kind: ledger.KindVendorPayment, ID: p.ID}
	narration := fmt.Sprintf("Payment %s to %s", p.Ref, p.VendorName)
	if ap, ok := x.role(ledger.RolePayable, src); ok {
		x.debit(ap, p.Date, p.Ref, narration, p.Amount, src)
	}
	if settle, ok := x.settlementAccount(p.Method, p.BankAccountID, src); ok {
		x.credit(settle, p.Date, p.Ref, narration, p.Amount, src)
	}
}

func (x *expander) cashVoucher(v *ledger.CashVoucher, kind ledger.SourceKind) {
	src := ledger.SourceRef{Kind: kind, ID: v.ID}
	cash, ok := x.role(ledger.RoleCash, src)
	if !ok {
		return
	}
	x.counterVoucher(cash, v.Date, v.Ref, v.Entries, v.Total(), kind == ledger.KindCashReceipt, src)
}

func (x *expander) bankVoucher(v *ledger.BankVoucher, kind ledger.SourceKind) {
	src := ledger.SourceRef{Kind: kind, ID: v.ID}
	x.counterVoucher(v.BankAccountID, v.Date, v.Ref, v.Entries, v.Total(), kind == ledger.KindBankReceipt, src)
}

// counterVoucher posts a payment or receipt voucher: the money account moves
// once by the voucher total, each entry's counter account moves the other
// way by its own amount.
func (x *expander) counterVoucher(moneyAccountID string, date ledger.Date, ref string, entries []ledger.VoucherEntry, total decimal.Decimal, receipt bool, src ledger.SourceRef) {
	if receipt {
		x.debit(moneyAccountID, date, ref, "Receipt "+ref, total, src)
	} else {
		x.credit(moneyAccountID, date, ref, "Payment "+ref, total, src)
	}
	for _, e := range entries {
		narration := e.Narration
		if narration == "" {
			narration = "Voucher " + ref
		}
		if receipt {
			x.credit(e.AccountID, date, ref, narration, e.Amount, src)
		} else {
			x.debit(e.AccountID, date, ref, narration, e.Amount, src)
		}
	}
}

func (x *expander) snapshot(snap *ledger.Snapshot) {
	for i := range snap.Invoices {
		x.invoice(&snap.Invoices[i])
	}
	for i := range snap.Bills {
		x.bill(&snap.Bills[i])
	}
	for i := range snap.SalesReturns {
		x.salesReturn(&snap.SalesReturns[i])
	}
	for i := range snap.PurchaseReturns {
		x.purchaseReturn(&snap.PurchaseReturns[i])
	}
	for i := range snap.Journals {
		x.journal(&snap.Journals[i])
	}
	for i := range snap.CustomerPayments {
		x.customerPayment(&snap.CustomerPayments[i])
	}
	for i := range snap.VendorPayments {
		x.vendorPayment(&snap.VendorPayments[i])
	}
	for i := range snap.CashPayments {
		x.cashVoucher(&snap.CashPayments[i], ledger.KindCashPayment)
	}
	for i := range snap.CashReceipts {
		x.cashVoucher(&snap.CashReceipts[i], ledger.KindCashReceipt)
	}
	for i := range snap.BankPayments {
		x.bankVoucher(&snap.BankPayments[i], ledger.KindBankPayment)
	}
	for i := range snap.BankReceipts {
		x.bankVoucher(&snap.BankReceipts[i], ledger.KindBankReceipt)
	}
}
