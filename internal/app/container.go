// Package app owns the in-memory application state for one session: the
// active credential plus the mutable snapshot of transactions, budgets,
// goals and theme. Mutations are synchronous over the snapshot; persistence
// is decoupled through the debounced Autosaver.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finanza/internal/core"
	"finanza/internal/session"
	"finanza/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// Notifier receives the outcome of every snapshot flush. Implementations
// must not block; a nil Notifier disables notifications.
type Notifier interface {
	NotifyFlush(ctx context.Context, email string, snap core.Snapshot, flushErr error)
}

// Config holds container configuration.
type Config struct {
	// Debounce is the autosave quiet period.
	Debounce time.Duration

	// Notifier is told about flush outcomes (optional).
	Notifier Notifier
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce}
}

// Container is the single source of truth during a session. There is
// exactly one writer (the current session) so a plain mutex is all the
// coordination the snapshot needs.
type Container struct {
	store    store.Store
	sessions *session.Manager
	saver    *Autosaver
	notifier Notifier

	mu   sync.Mutex
	user *core.Credential
	snap core.Snapshot
}

func NewContainer(st store.Store, sessions *session.Manager, cfg Config) *Container {
	c := &Container{
		store:    st,
		sessions: sessions,
		notifier: cfg.Notifier,
		snap:     core.DefaultSnapshot(false),
	}
	c.saver = NewAutosaver(cfg.Debounce, c.flushSnapshot)
	return c
}

// Restore resolves identity at startup from the persisted session token and
// loads that user's snapshot. Returns the restored credential or nil. The
// cached token is trusted as-is; it is not re-verified against the store.
func (c *Container) Restore(ctx context.Context) *core.Credential {
	if c.sessions == nil {
		return nil
	}
	cred := c.sessions.Load()
	if cred == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = cred
	c.loadSnapshotLocked(ctx, cred.Email)

	slog.InfoContext(ctx, "Session restored", "email", cred.Email)
	return cred
}

// Login matches email+password against the stored credentials and, on
// success, activates that user's snapshot (seeding a fresh one for a user
// with no stored data).
func (c *Container) Login(ctx context.Context, email, password string) (core.Credential, error) {
	creds, err := c.store.ListCredentials(ctx)
	if err != nil {
		return core.Credential{}, fmt.Errorf("list credentials: %w", err)
	}

	for _, cred := range creds {
		if cred.Email == email && cred.Password == password {
			c.activate(ctx, cred)
			return cred.Sanitized(), nil
		}
	}

	return core.Credential{}, ErrInvalidCredentials
}

// Register creates a new credential and behaves like a fresh login. The
// existing record is left untouched when the email is already taken.
func (c *Container) Register(ctx context.Context, name, email, password string) (core.Credential, error) {
	creds, err := c.store.ListCredentials(ctx)
	if err != nil {
		return core.Credential{}, fmt.Errorf("list credentials: %w", err)
	}
	for _, cred := range creds {
		if cred.Email == email {
			return core.Credential{}, ErrDuplicateEmail
		}
	}

	cred := core.Credential{
		ID:       core.NewID(),
		Name:     name,
		Email:    email,
		Password: password,
	}
	if err := c.store.UpsertCredential(ctx, cred); err != nil {
		return core.Credential{}, fmt.Errorf("save credential: %w", err)
	}

	c.activate(ctx, cred)
	return cred.Sanitized(), nil
}

// Logout flushes any pending write, clears the persisted session and resets
// the in-memory snapshot to defaults. Stored data is kept; only the theme
// flag survives as the process-wide default.
func (c *Container) Logout(ctx context.Context) error {
	if err := c.saver.Flush(ctx); err != nil {
		slog.WarnContext(ctx, "Flush on logout failed, persisted snapshot may lag", "error", err)
	}
	c.saver.Cancel()

	c.mu.Lock()
	darkMode := c.snap.DarkMode
	c.user = nil
	c.snap = core.DefaultSnapshot(darkMode)
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// CurrentUser returns the active credential without its password, or nil.
func (c *Container) CurrentUser() *core.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	cred := c.user.Sanitized()
	return &cred
}

// Snapshot returns a copy of the current in-memory state.
func (c *Container) Snapshot() core.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySnapshot(c.snap)
}

// SyncStatus reports the autosave state.
func (c *Container) SyncStatus() SyncStatus {
	return c.saver.Status()
}

// Flush forces an immediate snapshot write, bypassing the debounce window.
func (c *Container) Flush(ctx context.Context) error {
	return c.saver.Flush(ctx)
}

// AddTransaction assigns a fresh id and prepends the transaction, keeping
// most-recent-first insertion order. Callers needing chronological order
// sort by date themselves.
func (c *Container) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = core.NewID()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	c.mu.Lock()
	c.snap.Transactions = append([]core.Transaction{t}, c.snap.Transactions...)
	c.mu.Unlock()

	c.scheduleSave()
	return t, nil
}

// DeleteTransaction removes by id. Deleting an absent id is a no-op.
func (c *Container) DeleteTransaction(ctx context.Context, id string) {
	c.mu.Lock()
	kept := c.snap.Transactions[:0]
	for _, t := range c.snap.Transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	changed := len(kept) != len(c.snap.Transactions)
	c.snap.Transactions = kept
	c.mu.Unlock()

	if changed {
		c.scheduleSave()
	}
}

// UpsertGoal replaces the goal matching g.ID in place, or creates it with a
// fresh id when g.ID is empty. Updating an unknown id is a no-op.
func (c *Container) UpsertGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	create := g.ID == ""
	if create {
		g.ID = core.NewID()
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	c.mu.Lock()
	if create {
		c.snap.Goals = append(c.snap.Goals, g)
	} else {
		for i := range c.snap.Goals {
			if c.snap.Goals[i].ID == g.ID {
				c.snap.Goals[i] = g
				break
			}
		}
	}
	c.mu.Unlock()

	c.scheduleSave()
	return g, nil
}

// DeleteGoal removes by id. Deleting an absent id is a no-op.
func (c *Container) DeleteGoal(ctx context.Context, id string) {
	c.mu.Lock()
	kept := c.snap.Goals[:0]
	for _, g := range c.snap.Goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	changed := len(kept) != len(c.snap.Goals)
	c.snap.Goals = kept
	c.mu.Unlock()

	if changed {
		c.scheduleSave()
	}
}

// SetBudgets replaces the whole budget collection.
func (c *Container) SetBudgets(ctx context.Context, budgets []core.Budget) error {
	for _, b := range budgets {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.snap.Budgets = append([]core.Budget(nil), budgets...)
	c.mu.Unlock()

	c.scheduleSave()
	return nil
}

// ToggleDarkMode flips the theme flag and returns the new value. The flag
// is the one piece of state that lives on even when nobody is logged in, as
// the process-wide default for the next session.
func (c *Container) ToggleDarkMode(ctx context.Context) bool {
	c.mu.Lock()
	c.snap.DarkMode = !c.snap.DarkMode
	dark := c.snap.DarkMode
	c.mu.Unlock()

	c.scheduleSave()
	return dark
}

func (c *Container) activate(ctx context.Context, cred core.Credential) {
	c.saver.Cancel()

	c.mu.Lock()
	c.user = &cred
	c.loadSnapshotLocked(ctx, cred.Email)
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Save(cred); err != nil {
			slog.WarnContext(ctx, "Failed to persist session token", "error", err)
		}
	}
}

// loadSnapshotLocked loads the user's snapshot or seeds a fresh one. The
// current theme flag carries over either way. Caller holds c.mu.
func (c *Container) loadSnapshotLocked(ctx context.Context, email string) {
	darkMode := c.snap.DarkMode
	snap, ok, err := c.store.GetSnapshot(ctx, email)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "Failed to load snapshot, starting from defaults",
			"email", email, "error", err)
		c.snap = core.DefaultSnapshot(darkMode)
	case !ok:
		c.snap = core.SeededSnapshot(darkMode)
	default:
		snap.DarkMode = darkMode
		c.snap = snap
	}
}

func (c *Container) scheduleSave() {
	c.mu.Lock()
	loggedIn := c.user != nil
	c.mu.Unlock()

	// Without an identity there is nothing to key the write by; the theme
	// default is picked up by the next login's snapshot.
	if loggedIn {
		c.saver.Schedule()
	}
}

// flushSnapshot writes the full current snapshot, identity and secrets
// excluded by construction.
func (c *Container) flushSnapshot(ctx context.Context) error {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return nil
	}
	email := c.user.Email
	snap := copySnapshot(c.snap)
	c.mu.Unlock()

	err := c.store.PutSnapshot(ctx, email, snap)
	if c.notifier != nil {
		c.notifier.NotifyFlush(ctx, email, snap, err)
	}
	return err
}

func copySnapshot(s core.Snapshot) core.Snapshot {
	return core.Snapshot{
		Transactions: append([]core.Transaction(nil), s.Transactions...),
		Budgets:      append([]core.Budget(nil), s.Budgets...),
		Goals:        append([]core.Goal(nil), s.Goals...),
		DarkMode:     s.DarkMode,
	}
}
