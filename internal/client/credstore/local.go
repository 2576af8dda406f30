package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LocalMedium keeps credentials in a SQLite key/value table. Rows have no
// expiry; they are cleared only by Remove (logout or session teardown).
type LocalMedium struct {
	db *sql.DB
}

func NewLocalMedium(db *sql.DB) *LocalMedium {
	return &LocalMedium{db: db}
}

// Bootstrap creates the credentials table if it does not exist yet.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS credentials (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to bootstrap credential table: %w", err)
	}
	return nil
}

// Open opens the SQLite database at dsn and bootstraps the schema.
// The caller owns the returned handle.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := Bootstrap(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (m *LocalMedium) Set(ctx context.Context, name, value string, _ time.Duration) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", name, err)
	}
	return nil
}

func (m *LocalMedium) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential[%s]: %w", name, err)
	}
	return value, nil
}

func (m *LocalMedium) Remove(ctx context.Context, name string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove credential[%s]: %w", name, err)
	}
	return nil
}
