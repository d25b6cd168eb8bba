package localstate

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "state.db")
	st, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, dsn
}

func TestPutGetDelete(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, SlotSessionID); err != nil || ok {
		t.Fatalf("Get on empty store = ok=%v err=%v", ok, err)
	}

	if err := st.Put(ctx, SlotSessionID, "42"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := st.Get(ctx, SlotSessionID)
	if err != nil || !ok || v != "42" {
		t.Fatalf("Get = %q ok=%v err=%v, want 42", v, ok, err)
	}

	// Replace wholesale.
	if err := st.Put(ctx, SlotSessionID, "43"); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	v, _, _ = st.Get(ctx, SlotSessionID)
	if v != "43" {
		t.Errorf("after replace = %q, want 43", v)
	}

	if err := st.Delete(ctx, SlotSessionID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, SlotSessionID); ok {
		t.Error("slot still present after Delete")
	}

	// Deleting an absent slot is fine.
	if err := st.Delete(ctx, SlotSessionID); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestValueSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state.db")

	st, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Put(ctx, SlotAuthToken, "tok-abc"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	st.Close()

	st2, err := Open(dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	v, ok, err := st2.Get(ctx, SlotAuthToken)
	if err != nil || !ok || v != "tok-abc" {
		t.Fatalf("after reopen = %q ok=%v err=%v", v, ok, err)
	}
}

func TestReset(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	st.Put(ctx, SlotSessionID, "1")
	st.Put(ctx, SlotAuthToken, "t")
	if err := st.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok, _ := st.Get(ctx, SlotSessionID); ok {
		t.Error("session slot survived Reset")
	}
	if _, ok, _ := st.Get(ctx, SlotAuthToken); ok {
		t.Error("token slot survived Reset")
	}
}
