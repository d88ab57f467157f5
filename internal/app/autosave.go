package app

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SyncStatus is the persistence state surfaced to the user.
type SyncStatus string

const (
	// StatusSaving means the debounce timer is armed or a write is in flight.
	StatusSaving SyncStatus = "saving"
	// StatusSynced means the last write succeeded.
	StatusSynced SyncStatus = "synced"
	// StatusError means the last write failed. The in-memory snapshot stays
	// authoritative; the next successful write clears the error.
	StatusError SyncStatus = "error"
)

// FlushFunc writes the current snapshot to durable storage.
type FlushFunc func(ctx context.Context) error

// Autosaver debounces snapshot writes behind a single cancel-and-rearm
// timer. Every mutation schedules a write after a quiet period; a mutation
// arriving before the period elapses supersedes the pending one, so a burst
// of edits produces exactly one write once the user pauses. At most one
// timer is ever live, which is what keeps concurrent writes impossible.
type Autosaver struct {
	mu     sync.Mutex
	delay  time.Duration
	flush  FlushFunc
	timer  *time.Timer
	status SyncStatus

	// gen counts schedules. A timer callback or in-flight write whose
	// generation is stale has been superseded and must not touch status.
	gen uint64
}

// DefaultDebounce is the quiet period between the last mutation and the
// snapshot write.
const DefaultDebounce = 500 * time.Millisecond

func NewAutosaver(delay time.Duration, flush FlushFunc) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Autosaver{
		delay:  delay,
		flush:  flush,
		status: StatusSynced,
	}
}

// Schedule arms the timer, canceling any pending write.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.status = StatusSaving
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.delay, func() {
		a.fire(gen)
	})
}

// Cancel drops any pending write without flushing. Used on logout, when the
// snapshot about to be written no longer belongs to anyone.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	a.status = StatusSynced
}

// Flush writes immediately, bypassing the timer. Used on shutdown so the
// last burst of edits is not lost to the debounce window.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	err := a.flush(ctx)
	a.settle(gen, err)
	return err
}

// Status returns the current persistence state.
func (a *Autosaver) Status() SyncStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	err := a.flush(context.Background())
	if err != nil {
		slog.Error("Autosave flush failed", "error", err)
	}
	a.settle(gen, err)
}

func (a *Autosaver) settle(gen uint64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A newer mutation re-armed the timer while the write was in flight;
	// its outcome decides the status, not ours.
	if gen != a.gen {
		return
	}
	if err != nil {
		a.status = StatusError
	} else {
		a.status = StatusSynced
	}
}
