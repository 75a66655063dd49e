package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
)

func kindLabel(k ledger.SourceKind) string {
	switch k {
	case ledger.KindInvoice:
		return "Invoice"
	case ledger.KindPurchaseBill:
		return "Purchase Bill"
	case ledger.KindSalesReturn:
		return "Sales Return"
	case ledger.KindPurchaseReturn:
		return "Purchase Return"
	case ledger.KindJournalVoucher:
		return "Journal Voucher"
	case ledger.KindCustomerPayment:
		return "Customer Payment"
	case ledger.KindVendorPayment:
		return "Vendor Payment"
	case ledger.KindCashPayment:
		return "Cash Payment Voucher"
	case ledger.KindCashReceipt:
		return "Cash Receipt Voucher"
	case ledger.KindBankPayment:
		return "Bank Payment Voucher"
	case ledger.KindBankReceipt:
		return "Bank Receipt Voucher"
	default:
		return string(k)
	}
}

type documentLoadedMsg struct {
	ref ledger.SourceRef
	doc any
	err error
}

// docDetailModel shows a single source document. It is the bottom of every
// drilldown: report row to ledger line to the document that produced it.
type docDetailModel struct {
	ref     ledger.SourceRef
	doc     any
	loading bool
	err     error
	width   int
}

func (m *docDetailModel) init(c *client.Client, ref ledger.SourceRef) tea.Cmd {
	m.loading = true
	m.ref = ref
	m.doc = nil
	return func() tea.Msg {
		doc, err := c.GetDocument(context.Background(), ref)
		return documentLoadedMsg{ref: ref, doc: doc, err: err}
	}
}

func (m docDetailModel) update(msg tea.Msg) (docDetailModel, tea.Cmd) {
	if msg, ok := msg.(documentLoadedMsg); ok {
		m.loading = false
		m.doc = msg.doc
		m.err = msg.err
	}
	return m, nil
}

func (m *docDetailModel) view() string {
	if m.loading {
		return "Loading document..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.doc == nil {
		return dimStyle.Render("No document loaded.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(kindLabel(m.ref.Kind)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderDocument(m.doc)))
	return b.String()
}

func renderLineItems(b *strings.Builder, items []ledger.LineItem) {
	b.WriteString(fmt.Sprintf("\n%-30s %10s %12s %12s\n", "ITEM", "QTY", "PRICE", "AMOUNT"))
	for _, it := range items {
		desc := it.Description
		if len(desc) > 28 {
			desc = desc[:28] + ".."
		}
		b.WriteString(fmt.Sprintf("%-30s %10s %12s %12s\n",
			desc, it.Quantity.String(), ledger.FormatAmount(it.Price), ledger.FormatAmount(it.Amount())))
	}
}

func renderVoucherEntries(b *strings.Builder, entries []ledger.VoucherEntry) {
	b.WriteString(fmt.Sprintf("\n%-20s %-30s %12s\n", "ACCOUNT", "NARRATION", "AMOUNT"))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-20s %-30s %12s\n",
			e.AccountID, e.Narration, ledger.FormatAmount(e.Amount)))
	}
}

func renderDocument(doc any) string {
	var b strings.Builder
	switch d := doc.(type) {
	case *ledger.Invoice:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Customer:"), d.CustomerName))
		renderLineItems(&b, d.Items)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total)))

	case *ledger.PurchaseBill:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Vendor:"), d.VendorName))
		renderLineItems(&b, d.Items)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total)))

	case *ledger.SalesReturn:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Customer:"), d.CustomerName))
		if d.InvoiceID != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Against:"), d.InvoiceID))
		}
		renderLineItems(&b, d.Items)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total)))

	case *ledger.PurchaseReturn:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Vendor:"), d.VendorName))
		if d.BillID != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Against:"), d.BillID))
		}
		renderLineItems(&b, d.Items)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total)))

	case *ledger.JournalVoucher:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Narration:"), d.Narration))
		b.WriteString(fmt.Sprintf("\n%-20s %-24s %12s %12s\n", "ACCOUNT", "NARRATION", "DEBIT", "CREDIT"))
		for _, l := range d.Lines {
			dr, cr := "", ""
			if !l.Debit.IsZero() {
				dr = ledger.FormatAmount(l.Debit)
			}
			if !l.Credit.IsZero() {
				cr = ledger.FormatAmount(l.Credit)
			}
			b.WriteString(fmt.Sprintf("%-20s %-24s %12s %12s\n", l.AccountID, l.Narration, dr, cr))
		}

	case *ledger.CustomerPayment:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Customer:"), d.CustomerName))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Method:"), d.Method))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Amount:"), ledger.FormatAmount(d.Amount)))

	case *ledger.VendorPayment:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Vendor:"), d.VendorName))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Method:"), d.Method))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Amount:"), ledger.FormatAmount(d.Amount)))

	case *ledger.CashVoucher:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		renderVoucherEntries(&b, d.Entries)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total())))

	case *ledger.BankVoucher:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Ref:"), d.Ref))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), d.Date))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Bank a/c:"), d.BankAccountID))
		renderVoucherEntries(&b, d.Entries)
		b.WriteString(fmt.Sprintf("\n%s %s\n", labelStyle.Render("Total:"), ledger.FormatAmount(d.Total())))

	default:
		b.WriteString(fmt.Sprintf("%T\n", doc))
	}
	return b.String()
}
