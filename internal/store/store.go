// Package store persists application state in a single-table SQLite
// key-value store. Each key holds one JSON-encoded snapshot: the ledger,
// the category plan, the account list, and import session audit records.
//
// Writes replace the whole value under a key in one statement, so a
// snapshot is never observed half-written. Durability beyond that is out of
// scope; the store is a cache of the working state, not a journal.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/rumor-ml/commons.systems/findash/internal/domain"
	"github.com/rumor-ml/commons.systems/findash/internal/importer"
)

// Well-known snapshot keys.
const (
	keyLedger     = "ledger"
	keyCategories = "categories"
	keyAccounts   = "accounts"

	sessionKeyPrefix = "session:"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store wraps the SQLite handle with snapshot-specific operations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// get unmarshals the value under key into v. Returns false when the key has
// never been written.
func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode snapshot %q: %w", key, err)
	}
	return true, nil
}

// put marshals v and replaces the value under key in a single statement.
func (s *Store) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	return nil
}

// LoadLedger restores the persisted ledger, or an empty ledger with the id
// counter at 1 when nothing has been saved yet.
func (s *Store) LoadLedger(ctx context.Context) (*domain.Ledger, error) {
	var ledger domain.Ledger
	found, err := s.get(ctx, keyLedger, &ledger)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewLedger(nil, 1), nil
	}
	return &ledger, nil
}

// SaveLedger persists the full ledger snapshot
func (s *Store) SaveLedger(ctx context.Context, ledger *domain.Ledger) error {
	if ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}
	return s.put(ctx, keyLedger, ledger)
}

// LoadCategories restores the category plan, or nil when none was saved
func (s *Store) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if _, err := s.get(ctx, keyCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCategories persists the category plan
func (s *Store) SaveCategories(ctx context.Context, categories []domain.Category) error {
	return s.put(ctx, keyCategories, categories)
}

// LoadAccounts restores the account list, or nil when none was saved
func (s *Store) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if _, err := s.get(ctx, keyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts persists the account list
func (s *Store) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	return s.put(ctx, keyAccounts, accounts)
}

// SaveSession persists an import session audit record
func (s *Store) SaveSession(ctx context.Context, session importer.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	return s.put(ctx, sessionKeyPrefix+session.ID, session)
}

// GetSession retrieves an import session by id
func (s *Store) GetSession(ctx context.Context, id string) (importer.Session, bool, error) {
	var session importer.Session
	found, err := s.get(ctx, sessionKeyPrefix+id, &session)
	return session, found, err
}

// ListSessions retrieves every stored import session, most recent first.
func (s *Store) ListSessions(ctx context.Context) ([]importer.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM snapshots WHERE key LIKE ? ORDER BY key`,
		sessionKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []importer.Session
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var session importer.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	// Session ids are random, so key order is arbitrary; sort by time here.
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}
