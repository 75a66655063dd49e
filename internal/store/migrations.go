package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/microbooks/microbooks/internal/ledger"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id              TEXT PRIMARY KEY,
			code            TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			type            TEXT NOT NULL CHECK (type IN ('asset','liability','equity','revenue','expense')),
			sub_type        TEXT NOT NULL DEFAULT '',
			role            TEXT NOT NULL DEFAULT '',
			opening_balance TEXT NOT NULL DEFAULT '0',
			status          TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive')),
			is_posting      INTEGER NOT NULL DEFAULT 1,
			parent_code     TEXT NOT NULL DEFAULT '',
			is_system       INTEGER NOT NULL DEFAULT 0,
			created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(type)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_parent ON accounts(parent_code)`,

		// One row per document of any kind; the typed body lives in the
		// payload JSON, the columns the list views filter on are lifted out.
		`CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			ref        TEXT NOT NULL,
			doc_date   TEXT NOT NULL,
			party      TEXT NOT NULL DEFAULT '',
			total      TEXT NOT NULL DEFAULT '0',
			payload    TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_date ON documents(doc_date)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	// Seed the default chart, including the role accounts the posting
	// engine depends on.
	for _, a := range ledger.DefaultChart() {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO accounts (id, code, name, type, sub_type, role, opening_balance, status, is_posting, parent_code, is_system)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Code, a.Name, string(a.Type), string(a.SubType), string(a.Role),
			a.OpeningBalance.String(), string(a.Status), boolToInt(a.IsPosting), a.ParentCode, boolToInt(a.IsSystem),
		)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.Code, err)
		}
	}

	return nil
}
