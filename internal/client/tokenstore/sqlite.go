package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaultpass/internal/common"
	"vaultpass/internal/dbx"
	"vaultpass/internal/logging"
)

// SQLiteStore keeps the session record in a client-local SQLite database,
// in a metadata(key, value) table.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log.With("component", "tokenstore")}
}

func (s *SQLiteStore) SaveToken(ctx context.Context, token string) error {
	return s.set(ctx, common.TokenStorageKey, []byte(token))
}

func (s *SQLiteStore) Token(ctx context.Context) string {
	return string(s.get(ctx, common.TokenStorageKey))
}

func (s *SQLiteStore) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *SQLiteStore) DeleteToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, common.TokenStorageKey); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", common.TokenStorageKey, err)
	}
	return nil
}

func (s *SQLiteStore) SaveUser(ctx context.Context, data []byte) error {
	return s.set(ctx, common.UserStorageKey, data)
}

func (s *SQLiteStore) User(ctx context.Context) []byte {
	return s.get(ctx, common.UserStorageKey)
}

// Clear removes both keys in one transaction so a half-wiped session is
// never observable.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range []string{common.TokenStorageKey, common.UserStorageKey} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// get degrades every failure to absent. Unexpected errors are logged, not
// returned.
func (s *SQLiteStore) get(ctx context.Context, key string) []byte {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.log.Warn(ctx, "token store read failed, treating as absent", "key", key, "error", err)
		return nil
	}
	return value
}
