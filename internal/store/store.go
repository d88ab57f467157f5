// Package store provides durable persistence for credentials and per-user
// snapshots. Two keyed collections, point reads and writes only: there are
// no cross-record transactions, no versioning and no ordering guarantees
// beyond what the backend gives natively.
package store

import (
	"context"
	"errors"

	"finanza/internal/core"
)

// ErrUnavailable is returned when the underlying storage cannot be opened.
// It is fatal for the session; individual read/write failures are plain
// wrapped errors and leave the in-memory state authoritative.
var ErrUnavailable = errors.New("store unavailable")

// Store is the persistence boundary used by the application container.
type Store interface {
	// ListCredentials returns every registered credential. Order is
	// unspecified.
	ListCredentials(ctx context.Context) ([]core.Credential, error)

	// UpsertCredential inserts or overwrites the credential keyed by email.
	UpsertCredential(ctx context.Context, cred core.Credential) error

	// GetSnapshot returns the snapshot stored for email. A missing
	// snapshot is a normal outcome (new user) reported as ok=false with a
	// nil error.
	GetSnapshot(ctx context.Context, email string) (snap core.Snapshot, ok bool, err error)

	// PutSnapshot overwrites the stored snapshot for email. No merge
	// semantics: the caller always writes the full snapshot.
	PutSnapshot(ctx context.Context, email string, snap core.Snapshot) error

	Close() error
}
