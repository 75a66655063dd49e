package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenSeedsDefaultChart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	require.NoError(t, err)
	require.Len(t, accounts, len(ledger.DefaultChart()))

	chart := ledger.NewChart(accounts)
	for _, role := range []ledger.Role{
		ledger.RoleCash, ledger.RoleBank, ledger.RoleReceivable,
		ledger.RolePayable, ledger.RoleSales, ledger.RoleCOGS,
	} {
		_, ok := chart.RoleAccount(role)
		assert.True(t, ok, "role %s", role)
	}
}

func TestCreateAndGetAccount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	acct := &ledger.Account{
		Name:           "Depreciation",
		Type:           ledger.TypeExpense,
		SubType:        ledger.SubOperating,
		OpeningBalance: amt("75.50"),
		IsPosting:      true,
	}
	require.NoError(t, s.CreateAccount(ctx, acct))
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "5110", acct.Code, "auto code steps by 10 from the existing operating-expense block")

	got, err := s.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depreciation", got.Name)
	assert.Equal(t, ledger.StatusActive, got.Status, "defaulted on create")
	assert.True(t, got.OpeningBalance.Equal(amt("75.50")))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateAccountDuplicateCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	acct := &ledger.Account{Code: "1000", Name: "Another Cash", Type: ledger.TypeAsset, IsPosting: true}
	err := s.CreateAccount(ctx, acct)
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)
}

func TestCreateAccountValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.CreateAccount(ctx, &ledger.Account{Type: ledger.TypeAsset})
	assert.ErrorIs(t, err, ledger.ErrEmptyName)

	err = s.CreateAccount(ctx, &ledger.Account{Name: "X", Type: "contra"})
	assert.ErrorIs(t, err, ledger.ErrInvalidAccountType)

	err = s.CreateAccount(ctx, &ledger.Account{Name: "X", Type: ledger.TypeAsset, ParentCode: "8888"})
	assert.ErrorIs(t, err, ledger.ErrParentNotFound)
}

func TestCreateChildDemotesParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	child := &ledger.Account{
		Name: "Warehouse Stock", Type: ledger.TypeAsset, SubType: ledger.SubInventory,
		ParentCode: "1200", IsPosting: true,
	}
	require.NoError(t, s.CreateAccount(ctx, child))
	assert.Equal(t, "1200-1", child.Code)

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	require.NoError(t, err)
	parent, ok := ledger.NewChart(accounts).ByCode("1200")
	require.True(t, ok)
	assert.False(t, parent.IsPosting, "a parent with children is a rollup header")
}

func TestListAccountsFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assets, err := s.ListAccounts(ctx, AccountFilter{Type: ledger.TypeAsset})
	require.NoError(t, err)
	for _, a := range assets {
		assert.Equal(t, ledger.TypeAsset, a.Type)
	}

	posting, err := s.ListAccounts(ctx, AccountFilter{PostingOnly: true})
	require.NoError(t, err)
	for _, a := range posting {
		assert.True(t, a.IsPosting)
	}
	all, err := s.ListAccounts(ctx, AccountFilter{})
	require.NoError(t, err)
	assert.Less(t, len(posting), len(all), "the seeded expense group is excluded")
}

func TestUpdateAccount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	acct := &ledger.Account{Name: "Marketing", Type: ledger.TypeExpense, IsPosting: true}
	require.NoError(t, s.CreateAccount(ctx, acct))

	name := "Marketing & Ads"
	opening := amt("10")
	require.NoError(t, s.UpdateAccount(ctx, acct.ID, AccountUpdate{Name: &name, OpeningBalance: &opening}))

	got, err := s.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marketing & Ads", got.Name)
	assert.True(t, got.OpeningBalance.Equal(opening))

	empty := ""
	assert.ErrorIs(t, s.UpdateAccount(ctx, acct.ID, AccountUpdate{Name: &empty}), ledger.ErrEmptyName)

	// System accounts keep their identity, but opening balances stay editable.
	accounts, _ := s.ListAccounts(ctx, AccountFilter{})
	cash, _ := ledger.NewChart(accounts).ByCode("1000")
	inactive := ledger.StatusInactive
	assert.ErrorIs(t, s.UpdateAccount(ctx, cash.ID, AccountUpdate{Status: &inactive}), ledger.ErrSystemAccount)
	rename := "Petty Cash"
	assert.ErrorIs(t, s.UpdateAccount(ctx, cash.ID, AccountUpdate{Name: &rename}), ledger.ErrSystemAccount)

	prime := amt("250")
	require.NoError(t, s.UpdateAccount(ctx, cash.ID, AccountUpdate{OpeningBalance: &prime}))
	got, err = s.GetAccount(ctx, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash in Hand", got.Name)
	assert.True(t, got.OpeningBalance.Equal(prime))
}

func TestDeleteAccountGuards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	require.NoError(t, err)
	chart := ledger.NewChart(accounts)

	cash, _ := chart.ByCode("1000")
	assert.ErrorIs(t, s.DeleteAccount(ctx, cash.ID), ledger.ErrSystemAccount)

	// 4100 takes a posting via a cash receipt voucher, then refuses deletion.
	other, _ := chart.ByCode("4100")
	_, err = s.SaveDocument(ctx, ledger.KindCashReceipt, &ledger.CashVoucher{
		Date:    "2026-08-22",
		Entries: []ledger.VoucherEntry{{AccountID: other.ID, Amount: amt("35")}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteAccount(ctx, other.ID), ledger.ErrAccountHasPostings)

	// A group with children cannot go either.
	group, _ := chart.ByCode("5100")
	assert.ErrorIs(t, s.DeleteAccount(ctx, group.ID), ledger.ErrAccountHasPostings)

	// An untouched non-system leaf deletes cleanly.
	rent, _ := chart.ByCode("5100-1")
	require.NoError(t, s.DeleteAccount(ctx, rent.ID))
	_, err = s.GetAccount(ctx, rent.ID)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	assert.ErrorIs(t, s.DeleteAccount(ctx, "ghost"), ledger.ErrAccountNotFound)
}

func TestSaveDocumentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv := &ledger.Invoice{
		Date:         "2026-08-03",
		CustomerID:   "acme",
		CustomerName: "Acme Retail",
		Items: []ledger.LineItem{
			{ItemID: "widget-a", Description: "Widget A", Quantity: amt("10"), Price: amt("45")},
		},
		Total: amt("450"),
	}
	warnings, err := s.SaveDocument(ctx, ledger.KindInvoice, inv)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, inv.ID)
	assert.Contains(t, inv.Ref, "INV-")

	doc, err := s.GetDocument(ctx, ledger.KindInvoice, inv.ID)
	require.NoError(t, err)
	got := doc.(*ledger.Invoice)
	assert.Equal(t, inv.Ref, got.Ref)
	assert.Equal(t, "Acme Retail", got.CustomerName)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Price.Equal(amt("45")))
}

func TestSaveDocumentShortID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A caller-supplied ID shorter than the ref suffix is used whole.
	inv := &ledger.Invoice{ID: "ab", Date: "2026-08-03", CustomerName: "Acme Retail", Total: amt("10")}
	_, err := s.SaveDocument(ctx, ledger.KindInvoice, inv)
	require.NoError(t, err)
	assert.Equal(t, "INV-AB", inv.Ref)

	doc, err := s.GetDocument(ctx, ledger.KindInvoice, "ab")
	require.NoError(t, err)
	assert.Equal(t, "INV-AB", doc.(*ledger.Invoice).Ref)
}

func TestSaveDocumentValidates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveDocument(ctx, "credit_note", &ledger.Invoice{Date: "2026-08-01"})
	assert.ErrorIs(t, err, ledger.ErrUnknownKind)

	_, err = s.SaveDocument(ctx, ledger.KindInvoice, &ledger.Invoice{Date: "bad"})
	assert.ErrorIs(t, err, ledger.ErrInvalidDate)

	_, err = s.SaveDocument(ctx, ledger.KindJournalVoucher, &ledger.JournalVoucher{
		Date:  "2026-08-01",
		Lines: []ledger.JournalLine{{AccountID: "1000", Debit: amt("5")}},
	})
	assert.ErrorIs(t, err, ledger.ErrTooFewLines)
}

func TestSaveDocumentWarnsWithoutRejecting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A journal posting to an unknown account stores fine but is flagged.
	jv := &ledger.JournalVoucher{
		Date: "2026-08-01",
		Lines: []ledger.JournalLine{
			{AccountID: "ghost", Debit: amt("50")},
			{AccountID: "ghost", Credit: amt("50")},
		},
	}
	warnings, err := s.SaveDocument(ctx, ledger.KindJournalVoucher, jv)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "unknown account")

	_, err = s.GetDocument(ctx, ledger.KindJournalVoucher, jv.ID)
	assert.NoError(t, err, "stored despite the warning")
}

func TestListDocuments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveDocument(ctx, ledger.KindInvoice, &ledger.Invoice{
		Date: "2026-08-03", CustomerName: "Acme Retail", Total: amt("930"),
	})
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, ledger.KindInvoice, &ledger.Invoice{
		Date: "2026-08-07", CustomerName: "Bluebird Cafe", Total: amt("200"),
	})
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, ledger.KindPurchaseBill, &ledger.PurchaseBill{
		Date: "2026-08-05", VendorName: "Globex Supplies", Total: amt("400"),
	})
	require.NoError(t, err)

	all, err := s.ListDocuments(ctx, DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ledger.Date("2026-08-07"), all[0].Date, "newest first")

	invoices, err := s.ListDocuments(ctx, DocumentFilter{Kind: ledger.KindInvoice})
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	early, err := s.ListDocuments(ctx, DocumentFilter{From: "2026-08-01", To: "2026-08-05"})
	require.NoError(t, err)
	assert.Len(t, early, 2)
}

func TestDeleteDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv := &ledger.Invoice{Date: "2026-08-03", CustomerName: "Acme", Total: amt("10")}
	_, err := s.SaveDocument(ctx, ledger.KindInvoice, inv)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(ctx, ledger.KindInvoice, inv.ID))
	_, err = s.GetDocument(ctx, ledger.KindInvoice, inv.ID)
	assert.ErrorIs(t, err, ledger.ErrDocumentNotFound)

	assert.ErrorIs(t, s.DeleteDocument(ctx, ledger.KindInvoice, inv.ID), ledger.ErrDocumentNotFound)
}

func TestLoadSnapshotRoutesVoucherKinds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	require.NoError(t, err)
	chart := ledger.NewChart(accounts)
	bank, _ := chart.RoleAccount(ledger.RoleBank)
	rent, _ := chart.ByCode("5100-1")
	other, _ := chart.ByCode("4100")

	_, err = s.SaveDocument(ctx, ledger.KindCashReceipt, &ledger.CashVoucher{
		Date:    "2026-08-22",
		Entries: []ledger.VoucherEntry{{AccountID: other.ID, Amount: amt("35")}},
	})
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, ledger.KindCashPayment, &ledger.CashVoucher{
		Date:    "2026-08-23",
		Entries: []ledger.VoucherEntry{{AccountID: rent.ID, Amount: amt("20")}},
	})
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, ledger.KindBankPayment, &ledger.BankVoucher{
		Date: "2026-08-20", BankAccountID: bank.ID,
		Entries: []ledger.VoucherEntry{{AccountID: rent.ID, Amount: amt("250")}},
	})
	require.NoError(t, err)

	_, snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.CashReceipts, 1)
	assert.Len(t, snap.CashPayments, 1)
	assert.Len(t, snap.BankPayments, 1)
	assert.Empty(t, snap.BankReceipts)
}

func TestSnapshotFeedsEngine(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveDocument(ctx, ledger.KindInvoice, &ledger.Invoice{
		Date: "2026-08-03", CustomerName: "Acme Retail", Total: amt("930"),
	})
	require.NoError(t, err)

	chart, snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	idx := engine.NewIndex(chart, snap)
	require.Empty(t, idx.Warnings())

	ar, _ := chart.RoleAccount(ledger.RoleReceivable)
	b, err := idx.Balance(ar.ID, "")
	require.NoError(t, err)
	assert.True(t, b.Equal(amt("930")))

	tb := idx.TrialBalance("", "")
	assert.True(t, tb.Balanced)
}
