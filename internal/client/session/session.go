// Package session persists the signed-in user of the CLI in a local SQLite
// file so a login survives restarts.
package session

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	keyToken    = "token"
	keyUserID   = "user_id"
	keyUsername = "username"
	keyEmail    = "email"
)

// Session is the bearer token plus the public profile returned at login.
type Session struct {
	Token    string
	UserID   string
	Username string
	Email    string
}

// Store keeps at most one Session in a key/value metadata table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("session migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored session, or nil when nobody is signed in.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	if kv[keyToken] == "" {
		return nil, nil
	}
	return &Session{
		Token:    kv[keyToken],
		UserID:   kv[keyUserID],
		Username: kv[keyUsername],
		Email:    kv[keyEmail],
	}, nil
}

// Save replaces the stored session with ss.
func (s *Store) Save(ctx context.Context, ss Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		for k, v := range map[string]string{
			keyToken:    ss.Token,
			keyUserID:   ss.UserID,
			keyUsername: ss.Username,
			keyEmail:    ss.Email,
		} {
			if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
				return fmt.Errorf("failed to set session[%s]: %w", k, err)
			}
		}
		return nil
	})
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
