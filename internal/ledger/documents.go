package ledger

import (
	"github.com/shopspring/decimal"
)

// SourceKind tags the document type behind a posting or drilldown reference.
type SourceKind string

const (
	KindInvoice         SourceKind = "invoice"
	KindPurchaseBill    SourceKind = "purchase_bill"
	KindSalesReturn     SourceKind = "sales_return"
	KindPurchaseReturn  SourceKind = "purchase_return"
	KindJournalVoucher  SourceKind = "journal_voucher"
	KindCustomerPayment SourceKind = "customer_payment"
	KindVendorPayment   SourceKind = "vendor_payment"
	KindCashPayment     SourceKind = "cash_payment_voucher"
	KindCashReceipt     SourceKind = "cash_receipt_voucher"
	KindBankPayment     SourceKind = "bank_payment_voucher"
	KindBankReceipt     SourceKind = "bank_receipt_voucher"
)

var AllKinds = []SourceKind{
	KindInvoice,
	KindPurchaseBill,
	KindSalesReturn,
	KindPurchaseReturn,
	KindJournalVoucher,
	KindCustomerPayment,
	KindVendorPayment,
	KindCashPayment,
	KindCashReceipt,
	KindBankPayment,
	KindBankReceipt,
}

func ValidKind(k SourceKind) bool {
	for _, v := range AllKinds {
		if v == k {
			return true
		}
	}
	return false
}

// NewDocument allocates the zero document value for a kind, ready to
// unmarshal into. Cash and bank vouchers share a shape between their payment
// and receipt kinds.
func NewDocument(kind SourceKind) (any, error) {
	switch kind {
	case KindInvoice:
		return &Invoice{}, nil
	case KindPurchaseBill:
		return &PurchaseBill{}, nil
	case KindSalesReturn:
		return &SalesReturn{}, nil
	case KindPurchaseReturn:
		return &PurchaseReturn{}, nil
	case KindJournalVoucher:
		return &JournalVoucher{}, nil
	case KindCustomerPayment:
		return &CustomerPayment{}, nil
	case KindVendorPayment:
		return &VendorPayment{}, nil
	case KindCashPayment, KindCashReceipt:
		return &CashVoucher{}, nil
	case KindBankPayment, KindBankReceipt:
		return &BankVoucher{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// SourceRef points back at the document a posting came from. It is the hook
// the drilldown navigator follows from a ledger line to the source view.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   string     `json:"id"`
}

type LineItem struct {
	ItemID      string          `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (l LineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Price)
}

type Invoice struct {
	ID           string          `json:"id"`
	Ref          string          `json:"ref"`
	Date         Date            `json:"date"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Items        []LineItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type PurchaseBill struct {
	ID         string          `json:"id"`
	Ref        string          `json:"ref"`
	Date       Date            `json:"date"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Items      []LineItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

type SalesReturn struct {
	ID           string          `json:"id"`
	Ref          string          `json:"ref"`
	Date         Date            `json:"date"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	InvoiceID    string          `json:"invoice_id,omitempty"`
	Items        []LineItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type PurchaseReturn struct {
	ID         string          `json:"id"`
	Ref        string          `json:"ref"`
	Date       Date            `json:"date"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	BillID     string          `json:"bill_id,omitempty"`
	Items      []LineItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// JournalLine is one leg of a journal voucher. Exactly one of Debit/Credit
// must be non-zero.
type JournalLine struct {
	AccountID string          `json:"account_id"`
	Narration string          `json:"narration,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalVoucher is the only fully self-describing double-entry document:
// it names every account it touches with explicit debit/credit amounts.
type JournalVoucher struct {
	ID        string        `json:"id"`
	Ref       string        `json:"ref"`
	Date      Date          `json:"date"`
	Narration string        `json:"narration"`
	Lines     []JournalLine `json:"lines"`
}

// Validate enforces the write-time invariants: at least two lines, each line
// exactly one of debit or credit, and debits equal to credits in total.
func (v *JournalVoucher) Validate() error {
	if err := v.Date.Validate(); err != nil {
		return err
	}
	if len(v.Lines) < 2 {
		return ErrTooFewLines
	}
	totalDr := decimal.Zero
	totalCr := decimal.Zero
	for _, l := range v.Lines {
		hasDr := !l.Debit.IsZero()
		hasCr := !l.Credit.IsZero()
		if hasDr == hasCr {
			return ErrMixedLine
		}
		totalDr = totalDr.Add(l.Debit)
		totalCr = totalCr.Add(l.Credit)
	}
	if !totalDr.Equal(totalCr) {
		return ErrUnbalancedVoucher
	}
	return nil
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// Application allocates part of a payment to a specific invoice or bill.
type Application struct {
	DocumentID string          `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type CustomerPayment struct {
	ID            string          `json:"id"`
	Ref           string          `json:"ref"`
	Date          Date            `json:"date"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Applied       []Application   `json:"applied,omitempty"`
}

type VendorPayment struct {
	ID            string          `json:"id"`
	Ref           string          `json:"ref"`
	Date          Date            `json:"date"`
	VendorID      string          `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Applied       []Application   `json:"applied,omitempty"`
}

// VoucherEntry is one counter-account line of a cash or bank voucher.
type VoucherEntry struct {
	AccountID string          `json:"account_id"`
	Narration string          `json:"narration,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// CashVoucher posts against the cash-in-hand role account; every entry hits
// its own counter account for the entry amount.
type CashVoucher struct {
	ID      string         `json:"id"`
	Ref     string         `json:"ref"`
	Date    Date           `json:"date"`
	Entries []VoucherEntry `json:"entries"`
}

func (v *CashVoucher) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

func (v *CashVoucher) Validate() error {
	if err := v.Date.Validate(); err != nil {
		return err
	}
	if len(v.Entries) == 0 {
		return ErrNoEntries
	}
	return nil
}

// BankVoucher is the same shape against an explicit bank account rather than
// the cash role.
type BankVoucher struct {
	ID            string         `json:"id"`
	Ref           string         `json:"ref"`
	Date          Date           `json:"date"`
	BankAccountID string         `json:"bank_account_id"`
	Entries       []VoucherEntry `json:"entries"`
}

func (v *BankVoucher) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

func (v *BankVoucher) Validate() error {
	if err := v.Date.Validate(); err != nil {
		return err
	}
	if v.BankAccountID == "" {
		return ErrAccountNotFound
	}
	if len(v.Entries) == 0 {
		return ErrNoEntries
	}
	return nil
}

// Snapshot is the read-only bundle of every document in the books, threaded
// as one unit through all balance and report computations.
type Snapshot struct {
	Invoices         []Invoice         `json:"invoices"`
	Bills            []PurchaseBill    `json:"bills"`
	SalesReturns     []SalesReturn     `json:"sales_returns"`
	PurchaseReturns  []PurchaseReturn  `json:"purchase_returns"`
	Journals         []JournalVoucher  `json:"journals"`
	CustomerPayments []CustomerPayment `json:"customer_payments"`
	VendorPayments   []VendorPayment   `json:"vendor_payments"`
	CashPayments     []CashVoucher     `json:"cash_payments"`
	CashReceipts     []CashVoucher     `json:"cash_receipts"`
	BankPayments     []BankVoucher     `json:"bank_payments"`
	BankReceipts     []BankVoucher     `json:"bank_receipts"`
}
