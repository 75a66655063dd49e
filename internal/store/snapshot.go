package store

import (
	"context"
	"fmt"

	"github.com/microbooks/microbooks/internal/ledger"
)

// LoadSnapshot reads the full chart and every document into memory. The
// reporting engine always works from a complete snapshot; balances are never
// persisted.
func (s *Store) LoadSnapshot(ctx context.Context) (*ledger.Chart, *ledger.Snapshot, error) {
	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	if err != nil {
		return nil, nil, err
	}
	chart := ledger.NewChart(accounts)

	rows, err := s.reader.QueryContext(ctx, `SELECT kind, payload FROM documents ORDER BY doc_date, ref`)
	if err != nil {
		return nil, nil, fmt.Errorf("load documents: %w", err)
	}
	defer rows.Close()

	snap := &ledger.Snapshot{}
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		doc, err := unmarshalDocument(ledger.SourceKind(kind), []byte(payload))
		if err != nil {
			return nil, nil, err
		}
		switch d := doc.(type) {
		case *ledger.Invoice:
			snap.Invoices = append(snap.Invoices, *d)
		case *ledger.PurchaseBill:
			snap.Bills = append(snap.Bills, *d)
		case *ledger.SalesReturn:
			snap.SalesReturns = append(snap.SalesReturns, *d)
		case *ledger.PurchaseReturn:
			snap.PurchaseReturns = append(snap.PurchaseReturns, *d)
		case *ledger.JournalVoucher:
			snap.Journals = append(snap.Journals, *d)
		case *ledger.CustomerPayment:
			snap.CustomerPayments = append(snap.CustomerPayments, *d)
		case *ledger.VendorPayment:
			snap.VendorPayments = append(snap.VendorPayments, *d)
		case *ledger.CashVoucher:
			if ledger.SourceKind(kind) == ledger.KindCashReceipt {
				snap.CashReceipts = append(snap.CashReceipts, *d)
			} else {
				snap.CashPayments = append(snap.CashPayments, *d)
			}
		case *ledger.BankVoucher:
			if ledger.SourceKind(kind) == ledger.KindBankReceipt {
				snap.BankReceipts = append(snap.BankReceipts, *d)
			} else {
				snap.BankPayments = append(snap.BankPayments, *d)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return chart, snap, nil
}
