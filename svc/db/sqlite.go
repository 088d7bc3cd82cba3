package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"seeshare/pkg/domain"
)

const defaultQueryTimeout = 5 * time.Second

// SQLite persists the history blob in a single-row kv table. The file
// is the durable store; nothing is cached between calls, so a
// concurrent process never sees state staler than the last write.
type SQLite struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func NewSQLite(path string) (*SQLite, error) {
	return NewSQLiteWithConfig(path, defaultQueryTimeout)
}

func NewSQLiteWithConfig(path string, queryTimeout time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open history db")
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping history db")
	}
	s := &SQLite{db: db, queryTimeout: queryTimeout}
	if err := s.migrate(); err != nil {
		return nil, errors.Wrap(err, "migration failed")
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return errors.Wrap(err, "enable WAL mode")
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return errors.Wrap(err, "set busy timeout")
	}
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLite) load(ctx context.Context) ([]domain.HistoryItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	var raw []byte
	err := s.db.QueryRowContext(queryCtx, `SELECT value FROM kv WHERE key = ?`, historyKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read history blob")
	}
	return decodeHistory(raw)
}

func (s *SQLite) save(ctx context.Context, items []domain.HistoryItem) error {
	raw, err := encodeHistory(items)
	if err != nil {
		return err
	}
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(queryCtx, q, historyKey, raw, time.Now().UTC())
	return errors.Wrap(err, "write history blob")
}

func (s *SQLite) List(ctx context.Context) ([]domain.HistoryItem, error) {
	return s.load(ctx)
}

func (s *SQLite) Add(ctx context.Context, item domain.HistoryItem) error {
	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	items = append([]domain.HistoryItem{item}, items...)
	return s.save(ctx, items)
}

func (s *SQLite) Remove(ctx context.Context, shareURL, createdAt string) error {
	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, filterHistory(items, shareURL, createdAt))
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
