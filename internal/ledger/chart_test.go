package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartLookups(t *testing.T) {
	c := NewChart(DefaultChart())

	a, ok := c.ByCode("1100")
	require.True(t, ok)
	assert.Equal(t, "Accounts Receivable", a.Name)

	byID, ok := c.ByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.Code, byID.Code)

	_, ok = c.ByCode("9999")
	assert.False(t, ok)
}

func TestChartRoleAccounts(t *testing.T) {
	c := NewChart(DefaultChart())

	for _, role := range []Role{RoleCash, RoleBank, RoleReceivable, RolePayable, RoleSales, RoleCOGS} {
		a, ok := c.RoleAccount(role)
		require.True(t, ok, "role %s", role)
		assert.True(t, a.IsPosting)
	}

	// First by code wins when a role is claimed twice.
	accounts := append(DefaultChart(), Account{
		ID: "x", Code: "0100", Name: "Petty Cash", Type: TypeAsset, Role: RoleCash,
		Status: StatusActive, IsPosting: true,
	})
	c = NewChart(accounts)
	a, ok := c.RoleAccount(RoleCash)
	require.True(t, ok)
	assert.Equal(t, "0100", a.Code)
}

func TestChartChildren(t *testing.T) {
	c := NewChart(DefaultChart())

	kids := c.Children("5100")
	require.Len(t, kids, 2)
	assert.Equal(t, "5100-1", kids[0].Code)
	assert.Equal(t, "5100-2", kids[1].Code)

	for _, root := range c.TopLevel() {
		assert.Empty(t, root.ParentCode)
	}
}

func TestNextCodeTopLevel(t *testing.T) {
	c := NewChart(DefaultChart())

	// First account of a sub-type gets the type's base block.
	code, err := c.NextCode("", TypeLiability, SubType("loan"))
	require.NoError(t, err)
	assert.Equal(t, "2000", code)

	// Subsequent ones step by 10 from the max same-sub-type code.
	code, err = c.NextCode("", TypeAsset, SubBank)
	require.NoError(t, err)
	assert.Equal(t, "1020", code)
}

func TestNextCodeChild(t *testing.T) {
	c := NewChart(DefaultChart())

	code, err := c.NextCode("5100", TypeExpense, SubOperating)
	require.NoError(t, err)
	assert.Equal(t, "5100-3", code)

	code, err = c.NextCode("1200", TypeAsset, SubInventory)
	require.NoError(t, err)
	assert.Equal(t, "1200-1", code, "first child")

	_, err = c.NextCode("8888", TypeAsset, SubCash)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Petty Cash", Type: TypeAsset, Status: StatusActive}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Name = ""
	assert.ErrorIs(t, bad.Validate(), ErrEmptyName)

	bad = good
	bad.Type = "contra"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAccountType)

	bad = good
	bad.Status = "archived"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidStatus)
}

func TestAccountNature(t *testing.T) {
	assert.True(t, TypeAsset.DebitNormal())
	assert.True(t, TypeExpense.DebitNormal())
	assert.False(t, TypeLiability.DebitNormal())
	assert.False(t, TypeEquity.DebitNormal())
	assert.False(t, TypeRevenue.DebitNormal())
}
