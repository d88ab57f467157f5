package app

import (
	"context"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline hits. Autosave settles on
// a timer goroutine, so tests observe the outcome instead of sleeping a fixed
// amount.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestAutosaveBurstProducesSingleWrite(t *testing.T) {
	ctx := context.Background()
	c, st := newTestContainer(t, 50*time.Millisecond)
	if _, err := c.Register(ctx, "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	base := st.PutCount()

	for i := 0; i < 5; i++ {
		if _, err := c.AddTransaction(ctx, testTransaction("burst")); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if got := c.SyncStatus(); got != StatusSaving {
		t.Fatalf("expected %q during the quiet period, got %q", StatusSaving, got)
	}

	waitFor(t, "debounced write", func() bool { return c.SyncStatus() == StatusSynced })

	if got := st.PutCount() - base; got != 1 {
		t.Fatalf("expected exactly 1 write for the burst, got %d", got)
	}
	snap, ok, err := st.GetSnapshot(ctx, "ada@example.com")
	if err != nil || !ok {
		t.Fatalf("get snapshot: ok=%v err=%v", ok, err)
	}
	if len(snap.Transactions) != 5 {
		t.Fatalf("write must reflect the final state, got %d transactions", len(snap.Transactions))
	}
}

func TestAutosaveErrorStatusClearedByNextSuccess(t *testing.T) {
	ctx := context.Background()
	c, st := newTestContainer(t, 20*time.Millisecond)
	if _, err := c.Register(ctx, "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	st.FailWrites = true
	if _, err := c.AddTransaction(ctx, testTransaction("doomed")); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, "error status", func() bool { return c.SyncStatus() == StatusError })

	// The failed write never reached the store; the in-memory snapshot is
	// still authoritative.
	if got := len(c.Snapshot().Transactions); got != 1 {
		t.Fatalf("expected transaction kept in memory, got %d", got)
	}

	st.FailWrites = false
	if _, err := c.AddTransaction(ctx, testTransaction("retry")); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, "recovered status", func() bool { return c.SyncStatus() == StatusSynced })

	snap, ok, err := st.GetSnapshot(ctx, "ada@example.com")
	if err != nil || !ok {
		t.Fatalf("get snapshot: ok=%v err=%v", ok, err)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("expected both transactions persisted, got %d", len(snap.Transactions))
	}
}

func TestAutosaveFlushBypassesDebounce(t *testing.T) {
	ctx := context.Background()
	c, st := newTestContainer(t, time.Hour)
	if _, err := c.Register(ctx, "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.AddTransaction(ctx, testTransaction("lunch")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := c.SyncStatus(); got != StatusSynced {
		t.Fatalf("expected %q after flush, got %q", StatusSynced, got)
	}
	if got := st.PutCount(); got != 1 {
		t.Fatalf("expected 1 write, got %d", got)
	}
}

func TestAutosaverCancelDropsPendingWrite(t *testing.T) {
	writes := 0
	a := NewAutosaver(20*time.Millisecond, func(context.Context) error {
		writes++
		return nil
	})

	a.Schedule()
	a.Cancel()
	time.Sleep(100 * time.Millisecond)

	if writes != 0 {
		t.Fatalf("canceled write still fired %d times", writes)
	}
	if got := a.Status(); got != StatusSynced {
		t.Fatalf("expected %q after cancel, got %q", StatusSynced, got)
	}
}

func TestAutosaverRearmSupersedesTimer(t *testing.T) {
	fired := make(chan struct{}, 8)
	a := NewAutosaver(30*time.Millisecond, func(context.Context) error {
		fired <- struct{}{}
		return nil
	})

	for i := 0; i < 4; i++ {
		a.Schedule()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for flush")
	}
	select {
	case <-fired:
		t.Fatalf("superseded timers must not fire")
	case <-time.After(100 * time.Millisecond):
	}
}
