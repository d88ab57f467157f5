package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finanza/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists both collections in a single local database file.
// Snapshots are stored as one JSON document per user, mirroring their
// in-memory shape; credentials get their own columns so login can scan them
// without decoding snapshots.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// migrations. Any failure here means the store cannot be used at all and is
// reported as ErrUnavailable.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", ErrUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: run migrations: %v", ErrUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ListCredentials(ctx context.Context) ([]core.Credential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email, id, name, password FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []core.Credential
	for rows.Next() {
		var c core.Credential
		if err := rows.Scan(&c.Email, &c.ID, &c.Name, &c.Password); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return creds, nil
}

func (s *SQLiteStore) UpsertCredential(ctx context.Context, cred core.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validate credential: %w", err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (email, id, name, password) VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET id = excluded.id, name = excluded.name, password = excluded.password`,
		cred.Email, cred.ID, cred.Name, cred.Password)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}

	slog.InfoContext(ctx, "Credential saved", "email", cred.Email, "id", cred.ID)
	return nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, email string) (core.Snapshot, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE email = ?`, email).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return core.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}

	return snap.Normalize(), true, nil
}

func (s *SQLiteStore) PutSnapshot(ctx context.Context, email string, snap core.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (email, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		email, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"email", email,
		"transactions", len(snap.Transactions),
		"goals", len(snap.Goals))

	return nil
}
