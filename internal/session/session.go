// Package session remembers the logged-in identity across restarts.
//
// The token is a small JSON file holding the serialized credential. It is a
// convenience cache only: the authoritative record lives in the store and
// is deliberately not re-verified on restore, matching the behavior users
// already rely on.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanza/internal/core"
)

// Manager reads and writes the session token file.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load returns the persisted credential, or nil when no session exists.
// A missing or malformed token is never an error; the user simply has to
// log in again.
func (m *Manager) Load() *core.Credential {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil
	}

	var cred core.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		slog.Warn("Discarding malformed session token", "path", m.path, "error", err)
		return nil
	}
	if cred.Email == "" {
		return nil
	}

	return &cred
}

// Save persists the credential as the active session. The write is atomic
// (tmp file + rename) so a crash mid-write never leaves a corrupt token.
func (m *Manager) Save(cred core.Credential) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace session token: %w", err)
	}

	return nil
}

// Clear removes the token. Clearing an absent token is a no-op.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session token: %w", err)
	}
	return nil
}
