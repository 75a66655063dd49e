package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 123.45 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(amt("123.45")))

	_, err = ParseAmount("12.345")
	assert.ErrorIs(t, err, ErrInvalidAmount, "more than 2 decimal places")

	_, err = ParseAmount("twelve")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "42.50", FormatSigned(amt("42.5")))
	assert.Equal(t, "(42.50)", FormatSigned(amt("-42.5")))
	assert.Equal(t, "0.00", FormatSigned(decimal.Zero))
}

func TestJournalVoucherValidate(t *testing.T) {
	good := JournalVoucher{
		Date: "2026-08-01",
		Lines: []JournalLine{
			{AccountID: "a", Debit: amt("100")},
			{AccountID: "b", Credit: amt("100")},
		},
	}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Date = "not-a-date"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidDate)

	bad = good
	bad.Lines = good.Lines[:1]
	assert.ErrorIs(t, bad.Validate(), ErrTooFewLines)

	bad = good
	bad.Lines = []JournalLine{
		{AccountID: "a", Debit: amt("100"), Credit: amt("100")},
		{AccountID: "b", Credit: amt("100")},
	}
	assert.ErrorIs(t, bad.Validate(), ErrMixedLine)

	bad = good
	bad.Lines = []JournalLine{
		{AccountID: "a"},
		{AccountID: "b", Credit: amt("100")},
	}
	assert.ErrorIs(t, bad.Validate(), ErrMixedLine, "a line with neither side is as bad as both")

	bad = good
	bad.Lines = []JournalLine{
		{AccountID: "a", Debit: amt("100")},
		{AccountID: "b", Credit: amt("90")},
	}
	assert.ErrorIs(t, bad.Validate(), ErrUnbalancedVoucher)
}

func TestVoucherValidate(t *testing.T) {
	cv := CashVoucher{Date: "2026-08-01", Entries: []VoucherEntry{{AccountID: "a", Amount: amt("10")}}}
	assert.NoError(t, cv.Validate())
	assert.True(t, cv.Total().Equal(amt("10")))

	cv.Entries = nil
	assert.ErrorIs(t, cv.Validate(), ErrNoEntries)

	bv := BankVoucher{Date: "2026-08-01", Entries: []VoucherEntry{{AccountID: "a", Amount: amt("10")}}}
	assert.ErrorIs(t, bv.Validate(), ErrAccountNotFound, "bank voucher needs an explicit bank account")

	bv.BankAccountID = "bank"
	assert.NoError(t, bv.Validate())
}

func TestLineItemAmount(t *testing.T) {
	l := LineItem{Quantity: amt("3"), Price: amt("19.99")}
	assert.True(t, l.Amount().Equal(amt("59.97")))
}

func TestNewDocument(t *testing.T) {
	for _, kind := range AllKinds {
		doc, err := NewDocument(kind)
		require.NoError(t, err, "kind %s", kind)
		require.NotNil(t, doc)
	}

	// Payment and receipt vouchers share a shape.
	cp, _ := NewDocument(KindCashPayment)
	assert.IsType(t, &CashVoucher{}, cp)
	cr, _ := NewDocument(KindCashReceipt)
	assert.IsType(t, &CashVoucher{}, cr)
	br, _ := NewDocument(KindBankReceipt)
	assert.IsType(t, &BankVoucher{}, br)

	_, err := NewDocument("credit_note")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
