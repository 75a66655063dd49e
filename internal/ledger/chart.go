package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Chart is a read-only view over the full chart of accounts with the lookup
// maps the posting engine needs: by ID, by code, children by parent code,
// and the resolved structural role accounts.
type Chart struct {
	accounts []Account
	byID     map[string]*Account
	byCode   map[string]*Account
	children map[string][]*Account
	roles    map[Role]*Account
}

// NewChart builds the lookup maps once. Accounts are sorted by code so all
// downstream iteration is deterministic. If several accounts claim the same
// role the first by code wins.
func NewChart(accounts []Account) *Chart {
	c := &Chart{
		accounts: make([]Account, len(accounts)),
		byID:     make(map[string]*Account, len(accounts)),
		byCode:   make(map[string]*Account, len(accounts)),
		children: make(map[string][]*Account),
		roles:    make(map[Role]*Account),
	}
	copy(c.accounts, accounts)
	sort.Slice(c.accounts, func(i, j int) bool { return c.accounts[i].Code < c.accounts[j].Code })

	for i := range c.accounts {
		a := &c.accounts[i]
		c.byID[a.ID] = a
		c.byCode[a.Code] = a
		if a.ParentCode != "" {
			c.children[a.ParentCode] = append(c.children[a.ParentCode], a)
		}
		if a.Role != RoleNone {
			if _, taken := c.roles[a.Role]; !taken {
				c.roles[a.Role] = a
			}
		}
	}
	return c
}

func (c *Chart) Accounts() []Account {
	return c.accounts
}

func (c *Chart) ByID(id string) (*Account, bool) {
	a, ok := c.byID[id]
	return a, ok
}

func (c *Chart) ByCode(code string) (*Account, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// Children returns the direct children of the account with the given code,
// sorted by code.
func (c *Chart) Children(code string) []*Account {
	return c.children[code]
}

// TopLevel returns the accounts without a parent, sorted by code.
func (c *Chart) TopLevel() []*Account {
	var roots []*Account
	for i := range c.accounts {
		if c.accounts[i].ParentCode == "" {
			roots = append(roots, &c.accounts[i])
		}
	}
	return roots
}

// RoleAccount resolves the account carrying a structural role.
func (c *Chart) RoleAccount(role Role) (*Account, bool) {
	a, ok := c.roles[role]
	return a, ok
}

// NextCode produces the next unused account code.
//
// With a parent: "{parent}-1" for the first child, otherwise the max numeric
// suffix among siblings plus one. Malformed suffixes parse to 0 rather than
// erroring.
//
// Without a parent: the type's base block for the first account of the
// sub-type, otherwise the max existing same-sub-type top-level code plus 10.
func (c *Chart) NextCode(parentCode string, typ AccountType, sub SubType) (string, error) {
	if parentCode != "" {
		if _, ok := c.byCode[parentCode]; !ok {
			return "", fmt.Errorf("%w: %s", ErrParentNotFound, parentCode)
		}
		max := 0
		for _, sib := range c.children[parentCode] {
			max = maxInt(max, codeSuffix(sib.Code))
		}
		return fmt.Sprintf("%s-%d", parentCode, max+1), nil
	}

	base := typ.BaseCode()
	max := 0
	for _, a := range c.TopLevel() {
		if a.SubType != sub {
			continue
		}
		if n, err := strconv.Atoi(a.Code); err == nil && n > max {
			max = n
		}
	}
	if max == 0 {
		return strconv.Itoa(base), nil
	}
	return strconv.Itoa(max + 10), nil
}

// codeSuffix parses the numeric part after the last '-'. Non-numeric
// suffixes degrade to 0.
func codeSuffix(code string) int {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx == len(code)-1 {
		return 0
	}
	n, err := strconv.Atoi(code[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DefaultChart is the seed chart of accounts. The role tags wire the
// structural accounts (AR, AP, sales, COGS, cash, bank) that implicit
// documents post against; those are system accounts and cannot be deleted.
func DefaultChart() []Account {
	return []Account{
		{ID: "1000", Code: "1000", Name: "Cash in Hand", Type: TypeAsset, SubType: SubCash, Role: RoleCash, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "1010", Code: "1010", Name: "Bank Account", Type: TypeAsset, SubType: SubBank, Role: RoleBank, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "1100", Code: "1100", Name: "Accounts Receivable", Type: TypeAsset, SubType: SubReceivable, Role: RoleReceivable, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "1200", Code: "1200", Name: "Inventory", Type: TypeAsset, SubType: SubInventory, Status: StatusActive, IsPosting: true},
		{ID: "1300", Code: "1300", Name: "Fixed Assets", Type: TypeAsset, SubType: SubFixedAsset, Status: StatusActive, IsPosting: true},
		{ID: "2000", Code: "2000", Name: "Accounts Payable", Type: TypeLiability, SubType: SubPayable, Role: RolePayable, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "2100", Code: "2100", Name: "Taxes Payable", Type: TypeLiability, SubType: SubTax, Status: StatusActive, IsPosting: true},
		{ID: "3000", Code: "3000", Name: "Owner's Equity", Type: TypeEquity, SubType: SubCapital, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "4000", Code: "4000", Name: "Sales Revenue", Type: TypeRevenue, SubType: SubSales, Role: RoleSales, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "4100", Code: "4100", Name: "Other Income", Type: TypeRevenue, SubType: SubOtherInc, Status: StatusActive, IsPosting: true},
		{ID: "5000", Code: "5000", Name: "Cost of Goods Sold", Type: TypeExpense, SubType: SubCOGS, Role: RoleCOGS, Status: StatusActive, IsPosting: true, IsSystem: true},
		{ID: "5100", Code: "5100", Name: "Operating Expenses", Type: TypeExpense, SubType: SubOperating, Status: StatusActive, IsPosting: false},
		{ID: "5100-1", Code: "5100-1", Name: "Rent", Type: TypeExpense, SubType: SubOperating, ParentCode: "5100", Status: StatusActive, IsPosting: true},
		{ID: "5100-2", Code: "5100-2", Name: "Salaries", Type: TypeExpense, SubType: SubOperating, ParentCode: "5100", Status: StatusActive, IsPosting: true},
	}
}
