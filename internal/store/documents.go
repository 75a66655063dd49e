package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// DocumentSummary is the list-view row lifted out of the payload.
type DocumentSummary struct {
	ID        string            `json:"id"`
	Kind      ledger.SourceKind `json:"kind"`
	Ref       string            `json:"ref"`
	Date      ledger.Date       `json:"date"`
	Party     string            `json:"party"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

// docMeta pulls the indexed columns out of a typed document and stamps a
// generated ID/ref where the caller left them empty.
func docMeta(kind ledger.SourceKind, doc any) (id, ref string, date ledger.Date, party string, total decimal.Decimal, err error) {
	switch d := doc.(type) {
	case *ledger.Invoice:
		fillID(&d.ID, &d.Ref, "INV")
		return d.ID, d.Ref, d.Date, d.CustomerName, d.Total, d.Date.Validate()
	case *ledger.PurchaseBill:
		fillID(&d.ID, &d.Ref, "BILL")
		return d.ID, d.Ref, d.Date, d.VendorName, d.Total, d.Date.Validate()
	case *ledger.SalesReturn:
		fillID(&d.ID, &d.Ref, "SRET")
		return d.ID, d.Ref, d.Date, d.CustomerName, d.Total, d.Date.Validate()
	case *ledger.PurchaseReturn:
		fillID(&d.ID, &d.Ref, "PRET")
		return d.ID, d.Ref, d.Date, d.VendorName, d.Total, d.Date.Validate()
	case *ledger.JournalVoucher:
		fillID(&d.ID, &d.Ref, "JV")
		total := decimal.Zero
		for _, l := range d.Lines {
			total = total.Add(l.Debit)
		}
		return d.ID, d.Ref, d.Date, d.Narration, total, d.Validate()
	case *ledger.CustomerPayment:
		fillID(&d.ID, &d.Ref, "RCPT")
		return d.ID, d.Ref, d.Date, d.CustomerName, d.Amount, d.Date.Validate()
	case *ledger.VendorPayment:
		fillID(&d.ID, &d.Ref, "PMT")
		return d.ID, d.Ref, d.Date, d.VendorName, d.Amount, d.Date.Validate()
	case *ledger.CashVoucher:
		prefix := "CPV"
		if kind == ledger.KindCashReceipt {
			prefix = "CRV"
		}
		fillID(&d.ID, &d.Ref, prefix)
		return d.ID, d.Ref, d.Date, "", d.Total(), d.Validate()
	case *ledger.BankVoucher:
		prefix := "BPV"
		if kind == ledger.KindBankReceipt {
			prefix = "BRV"
		}
		fillID(&d.ID, &d.Ref, prefix)
		return d.ID, d.Ref, d.Date, "", d.Total(), d.Validate()
	default:
		return "", "", "", "", decimal.Zero, fmt.Errorf("%w: %T", ledger.ErrUnknownKind, doc)
	}
}

func fillID(id, ref *string, prefix string) {
	if *id == "" {
		*id = uuid.Must(uuid.NewV7()).String()
	}
	if *ref == "" {
		// Caller-supplied IDs can be arbitrarily short; take what's there.
		suffix := *id
		if len(suffix) > 6 {
			suffix = suffix[len(suffix)-6:]
		}
		*ref = prefix + "-" + strings.ToUpper(suffix)
	}
}

// SaveDocument validates, persists, and balance-checks a document. The
// returned warnings are advisory: an out-of-balance document is stored and
// reported, not rejected.
func (s *Store) SaveDocument(ctx context.Context, kind ledger.SourceKind, doc any) ([]engine.Warning, error) {
	if !ledger.ValidKind(kind) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrUnknownKind, kind)
	}

	id, ref, date, party, total, err := docMeta(kind, doc)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO documents (id, kind, ref, doc_date, party, total, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(kind), ref, string(date), party, total.String(), string(payload))
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	if err != nil {
		return nil, err
	}
	return engine.CheckDocument(ledger.NewChart(accounts), kind, doc), nil
}

func (s *Store) GetDocument(ctx context.Context, kind ledger.SourceKind, id string) (any, error) {
	var payload string
	err := s.reader.QueryRowContext(ctx,
		`SELECT payload FROM documents WHERE id = ? AND kind = ?`, id, string(kind)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return unmarshalDocument(kind, []byte(payload))
}

func (s *Store) ListDocuments(ctx context.Context, filter DocumentFilter) ([]DocumentSummary, error) {
	query := `SELECT id, kind, ref, doc_date, party, total, created_at FROM documents WHERE 1=1`
	args := []any{}

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.From != "" {
		query += ` AND doc_date >= ?`
		args = append(args, string(filter.From))
	}
	if filter.To != "" {
		query += ` AND doc_date <= ?`
		args = append(args, string(filter.To))
	}

	query += ` ORDER BY doc_date DESC, ref DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var d DocumentSummary
		var total, createdAt string
		if err := rows.Scan(&d.ID, &d.Kind, &d.Ref, &d.Date, &d.Party, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if d.Total, err = decimal.NewFromString(total); err != nil {
			d.Total = decimal.Zero
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes the record. Balances are always recomputed from
// the remaining snapshot; there is no cascading correction to apply.
func (s *Store) DeleteDocument(ctx context.Context, kind ledger.SourceKind, id string) error {
	res, err := s.writer.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND kind = ?`, id, string(kind))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrDocumentNotFound
	}
	return nil
}

func unmarshalDocument(kind ledger.SourceKind, payload []byte) (any, error) {
	doc, err := ledger.NewDocument(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, kind)
	}
	if err := json.Unmarshal(payload, doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	return doc, nil
}
