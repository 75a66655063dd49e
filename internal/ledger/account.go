package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

var AllTypes = []AccountType{
	TypeAsset,
	TypeLiability,
	TypeEquity,
	TypeRevenue,
	TypeExpense,
}

// DebitNormal reports whether the type's natural balance direction is a
// debit. Assets and Expenses are debit-normal; Liabilities, Equity, and
// Revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// BaseCode returns the top-level code block for the type.
func (t AccountType) BaseCode() int {
	switch t {
	case TypeAsset:
		return 1000
	case TypeLiability:
		return 2000
	case TypeEquity:
		return 3000
	case TypeRevenue:
		return 4000
	case TypeExpense:
		return 5000
	default:
		return 9000
	}
}

func ValidType(t AccountType) bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}

// TypeLabel returns a human-readable label for an account type.
func TypeLabel(t AccountType) string {
	switch t {
	case TypeAsset:
		return "Assets"
	case TypeLiability:
		return "Liabilities"
	case TypeEquity:
		return "Equity"
	case TypeRevenue:
		return "Revenue"
	case TypeExpense:
		return "Expenses"
	default:
		return string(t)
	}
}

// SubType is the finer-grained classification under the main type, used for
// behavioral grouping (bank vs cash) and for top-level code allocation.
type SubType string

const (
	SubCash       SubType = "cash"
	SubBank       SubType = "bank"
	SubReceivable SubType = "accounts_receivable"
	SubInventory  SubType = "inventory"
	SubFixedAsset SubType = "fixed_asset"
	SubPayable    SubType = "accounts_payable"
	SubTax        SubType = "tax"
	SubCapital    SubType = "capital"
	SubSales      SubType = "sales"
	SubOtherInc   SubType = "other_income"
	SubCOGS       SubType = "cost_of_goods_sold"
	SubOperating  SubType = "operating_expense"
)

// Role marks an account as playing a distinguished structural part in
// document posting. At most one active account should carry each role; the
// chart resolves them once at load time.
type Role string

const (
	RoleNone       Role = ""
	RoleReceivable Role = "accounts_receivable"
	RolePayable    Role = "accounts_payable"
	RoleSales      Role = "sales_revenue"
	RoleCOGS       Role = "cost_of_goods_sold"
	RoleCash       Role = "cash_in_hand"
	RoleBank       Role = "default_bank"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Account struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	SubType        SubType         `json:"sub_type,omitempty"`
	Role           Role            `json:"role,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         Status          `json:"status"`
	IsPosting      bool            `json:"is_posting"`
	ParentCode     string          `json:"parent_code,omitempty"`
	IsSystem       bool            `json:"is_system"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DebitNormal reports the account's natural balance direction.
func (a *Account) DebitNormal() bool {
	return a.Type.DebitNormal()
}

// Validate checks account invariants. Code generation and parent wiring are
// the chart's concern; this only checks the fields themselves.
func (a *Account) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if !ValidType(a.Type) {
		return ErrInvalidAccountType
	}
	if a.Status != StatusActive && a.Status != StatusInactive {
		return ErrInvalidStatus
	}
	return nil
}
