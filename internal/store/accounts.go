package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

// CreateAccount validates and inserts an account. A missing code is derived
// from the current chart (parent siblings or type block); a parent reference
// forces the parent to a non-posting group account, in the same transaction.
func (s *Store) CreateAccount(ctx context.Context, acct *ledger.Account) error {
	if acct.Status == "" {
		acct.Status = ledger.StatusActive
	}
	if err := acct.Validate(); err != nil {
		return err
	}

	accounts, err := s.ListAccounts(ctx, AccountFilter{})
	if err != nil {
		return err
	}
	chart := ledger.NewChart(accounts)

	if acct.Code == "" {
		code, err := chart.NextCode(acct.ParentCode, acct.Type, acct.SubType)
		if err != nil {
			return err
		}
		acct.Code = code
	} else if _, exists := chart.ByCode(acct.Code); exists {
		return fmt.Errorf("%w: code %s", ledger.ErrDuplicateAccount, acct.Code)
	}
	if acct.ParentCode != "" {
		if _, ok := chart.ByCode(acct.ParentCode); !ok {
			return fmt.Errorf("%w: %s", ledger.ErrParentNotFound, acct.ParentCode)
		}
	}
	if acct.ID == "" {
		acct.ID = uuid.Must(uuid.NewV7()).String()
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (id, code, name, type, sub_type, role, opening_balance, status, is_posting, parent_code, is_system)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.Code, acct.Name, string(acct.Type), string(acct.SubType), string(acct.Role),
		acct.OpeningBalance.String(), string(acct.Status), boolToInt(acct.IsPosting), acct.ParentCode, boolToInt(acct.IsSystem),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	// A parent with children is a rollup header; it may never also take
	// direct postings.
	if acct.ParentCode != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_posting = 0 WHERE code = ?`, acct.ParentCode); err != nil {
			return fmt.Errorf("demote parent: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, code, name, type, sub_type, role, opening_balance, status, is_posting, parent_code, is_system, created_at
		 FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (s *Store) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	query := `SELECT id, code, name, type, sub_type, role, opening_balance, status, is_posting, parent_code, is_system, created_at
		FROM accounts WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.PostingOnly {
		query += ` AND is_posting = 1`
	}

	query += ` ORDER BY code`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		acct, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// AccountUpdate carries the editable account fields. The type is immutable
// after creation: changing it would flip the debit/credit nature under every
// historical posting.
type AccountUpdate struct {
	Name           *string
	Status         *ledger.Status
	OpeningBalance *decimal.Decimal
}

func (s *Store) UpdateAccount(ctx context.Context, id string, upd AccountUpdate) error {
	acct, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	// System accounts keep their identity: no renames, no deactivation.
	// Opening balances stay editable so a fresh book can be primed.
	if acct.IsSystem && (upd.Name != nil || upd.Status != nil) {
		return ledger.ErrSystemAccount
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return ledger.ErrEmptyName
		}
		acct.Name = *upd.Name
	}
	if upd.Status != nil {
		if *upd.Status != ledger.StatusActive && *upd.Status != ledger.StatusInactive {
			return ledger.ErrInvalidStatus
		}
		acct.Status = *upd.Status
	}
	if upd.OpeningBalance != nil {
		acct.OpeningBalance = *upd.OpeningBalance
	}

	_, err = s.writer.ExecContext(ctx,
		`UPDATE accounts SET name = ?, status = ?, opening_balance = ? WHERE id = ?`,
		acct.Name, string(acct.Status), acct.OpeningBalance.String(), id)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// DeleteAccount refuses to remove system accounts, group accounts with
// children, and accounts any document posts to.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	acct, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if acct.IsSystem {
		return ledger.ErrSystemAccount
	}

	chart, snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if len(chart.Children(acct.Code)) > 0 {
		return fmt.Errorf("%w: %s has child accounts", ledger.ErrAccountHasPostings, acct.Code)
	}
	idx := engine.NewIndex(chart, snap)
	if n := len(idx.Postings(id)); n > 0 {
		return fmt.Errorf("%w: %s has %d postings", ledger.ErrAccountHasPostings, acct.Code, n)
	}

	_, err = s.writer.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func scanAccount(row *sql.Row) (*ledger.Account, error) {
	var acct ledger.Account
	var opening, createdAt string
	var isPosting, isSystem int
	err := row.Scan(&acct.ID, &acct.Code, &acct.Name, &acct.Type, &acct.SubType, &acct.Role,
		&opening, &acct.Status, &isPosting, &acct.ParentCode, &isSystem, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return finishAccount(&acct, opening, createdAt, isPosting, isSystem)
}

func scanAccountRow(rows *sql.Rows) (*ledger.Account, error) {
	var acct ledger.Account
	var opening, createdAt string
	var isPosting, isSystem int
	err := rows.Scan(&acct.ID, &acct.Code, &acct.Name, &acct.Type, &acct.SubType, &acct.Role,
		&opening, &acct.Status, &isPosting, &acct.ParentCode, &isSystem, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("scan account row: %w", err)
	}
	return finishAccount(&acct, opening, createdAt, isPosting, isSystem)
}

func finishAccount(acct *ledger.Account, opening, createdAt string, isPosting, isSystem int) (*ledger.Account, error) {
	bal, err := decimal.NewFromString(opening)
	if err != nil {
		// Lenient: a malformed stored balance reads as zero.
		bal = decimal.Zero
	}
	acct.OpeningBalance = bal
	acct.IsPosting = isPosting == 1
	acct.IsSystem = isSystem == 1
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return acct, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
