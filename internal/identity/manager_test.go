package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/prepterm/internal/localstate"
)

type stubFetcher struct {
	id    int
	err   error
	calls int
}

func (s *stubFetcher) ActiveSession(context.Context) (int, error) {
	s.calls++
	return s.id, s.err
}

func openSlots(t *testing.T) *localstate.Store {
	t.Helper()
	st, err := localstate.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open slots: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestWriteBeforeLoadRejected(t *testing.T) {
	m := New(openSlots(t))
	if err := m.Set(context.Background(), 5); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Set before Load = %v, want ErrNotHydrated", err)
	}
	if err := m.Clear(context.Background()); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Clear before Load = %v, want ErrNotHydrated", err)
	}
}

func TestSessionSurvivesReload(t *testing.T) {
	ctx := context.Background()
	slots := openSlots(t)

	m := New(slots)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Set(ctx, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Simulated reload: a fresh manager over the same store.
	m2 := New(slots)
	if err := m2.Load(ctx); err != nil {
		t.Fatalf("Load (reload): %v", err)
	}
	if got := m2.SessionID(); got != 42 {
		t.Errorf("SessionID after reload = %d, want 42", got)
	}
}

func TestClearDeletesSlot(t *testing.T) {
	ctx := context.Background()
	slots := openSlots(t)

	m := New(slots)
	m.Load(ctx)
	m.Set(ctx, 7)
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := slots.Get(ctx, localstate.SlotSessionID); ok {
		t.Error("slot still present after Clear")
	}

	m2 := New(slots)
	m2.Load(ctx)
	if m2.SessionID() != 0 {
		t.Errorf("SessionID after Clear+reload = %d, want 0", m2.SessionID())
	}
}

func TestLoadDiscardsMalformedValue(t *testing.T) {
	ctx := context.Background()
	slots := openSlots(t)
	slots.Put(ctx, localstate.SlotSessionID, "not-a-number")

	m := New(slots)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.SessionID() != 0 {
		t.Errorf("SessionID = %d, want 0", m.SessionID())
	}
	if _, ok, _ := slots.Get(ctx, localstate.SlotSessionID); ok {
		t.Error("malformed slot not discarded")
	}
}

func TestResolveFallsBackToBackend(t *testing.T) {
	ctx := context.Background()
	m := New(openSlots(t))
	m.Load(ctx)

	fetcher := &stubFetcher{id: 99}
	id, err := m.Resolve(ctx, fetcher)
	if err != nil || id != 99 {
		t.Fatalf("Resolve = %d, %v", id, err)
	}
	if fetcher.calls != 1 {
		t.Errorf("backend calls = %d, want 1", fetcher.calls)
	}

	// Adopted id is now local; no second backend call.
	id, err = m.Resolve(ctx, fetcher)
	if err != nil || id != 99 {
		t.Fatalf("second Resolve = %d, %v", id, err)
	}
	if fetcher.calls != 1 {
		t.Errorf("backend calls after adoption = %d, want 1", fetcher.calls)
	}
}
