package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	"github.com/microbooks/microbooks/internal/ledger"
	_ "modernc.org/sqlite"
)

type AccountFilter struct {
	Type        ledger.AccountType
	Status      ledger.Status
	PostingOnly bool
	Limit       int
	Offset      int
}

type DocumentFilter struct {
	Kind   ledger.SourceKind
	From   ledger.Date
	To     ledger.Date
	Limit  int
	Offset int
}

// Store persists the chart of accounts and all documents in SQLite. A
// single-connection writer serializes mutations; reads fan out over a
// pooled reader.
type Store struct {
	writer *sql.DB
	reader *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
