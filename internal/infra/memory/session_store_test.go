package memory

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := store.Create(ctx)
	if session == nil || session.ID() == "" {
		t.Fatalf("expected session with id")
	}
	got, ok := store.Get(ctx, session.ID())
	if !ok || got != session {
		t.Fatalf("expected same session back")
	}
	if again, _ := store.Get(ctx, session.ID()); again != got {
		t.Fatalf("repeated lookups must return equivalent state")
	}

	other := store.Create(ctx)
	if other.ID() == session.ID() {
		t.Fatalf("session ids must be unique")
	}
}

func TestCreateAtPresetsStep(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	session := store.CreateAt(ctx, 2)
	if session.Snapshot().CurrentStep != 2 {
		t.Fatalf("expected step 2, got %d", session.Snapshot().CurrentStep)
	}
}

func TestRemoveExpired(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStoreWithClock(func() time.Time { return base })

	session := store.Create(ctx)

	if removed := store.RemoveExpired(ctx, base.Add(23*time.Hour), 24*time.Hour); removed != 0 {
		t.Fatalf("session expired too early, removed %d", removed)
	}
	if _, ok := store.Get(ctx, session.ID()); !ok {
		t.Fatal("session should still exist before ttl")
	}

	if removed := store.RemoveExpired(ctx, base.Add(25*time.Hour), 24*time.Hour); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, ok := store.Get(ctx, session.ID()); ok {
		t.Fatal("expired session should be gone")
	}

	// Sweeping again is a no-op.
	if removed := store.RemoveExpired(ctx, base.Add(26*time.Hour), 24*time.Hour); removed != 0 {
		t.Fatalf("repeat sweep should remove nothing, got %d", removed)
	}
}
