package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"finanza/internal/core"
)

// MemoryStore is a map-backed Store. It survives nothing, which is exactly
// what tests and the memory backend want.
type MemoryStore struct {
	mu        sync.Mutex
	creds     map[string]core.Credential
	snapshots map[string][]byte

	// FailWrites makes PutSnapshot fail, for exercising the error path.
	FailWrites bool

	puts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		creds:     make(map[string]core.Credential),
		snapshots: make(map[string][]byte),
	}
}

func (s *MemoryStore) ListCredentials(_ context.Context) ([]core.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := make([]core.Credential, 0, len(s.creds))
	for _, c := range s.creds {
		creds = append(creds, c)
	}
	return creds, nil
}

func (s *MemoryStore) UpsertCredential(_ context.Context, cred core.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validate credential: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.Email] = cred
	return nil
}

func (s *MemoryStore) GetSnapshot(_ context.Context, email string) (core.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.snapshots[email]
	if !ok {
		return core.Snapshot{}, false, nil
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return core.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Normalize(), true, nil
}

func (s *MemoryStore) PutSnapshot(_ context.Context, email string, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("put snapshot: write disabled")
	}

	// Round-trip through JSON so the memory store keeps the same
	// serialization semantics as the sqlite one.
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.snapshots[email] = data
	s.puts++
	return nil
}

// PutCount reports how many snapshot writes have succeeded. Tests use it to
// assert that a burst of mutations produces a single write.
func (s *MemoryStore) PutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *MemoryStore) Close() error { return nil }
