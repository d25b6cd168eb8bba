// Package identity owns the current session identifier. The id is issued
// by the backend; this package only remembers it across processes so a
// dashboard or a restarted TUI can resolve the same logical session.
package identity

import (
	"context"
	"errors"
	"strconv"

	"github.com/abhisek/prepterm/internal/localstate"
)

// ErrNotHydrated is returned when a write is attempted before Load. The
// explicit gate prevents an early writer from clobbering the persisted id
// with an empty value.
var ErrNotHydrated = errors.New("identity manager not hydrated")

// ActiveSessionFetcher resolves the most recent session from the backend.
// Satisfied by *api.Client.
type ActiveSessionFetcher interface {
	ActiveSession(ctx context.Context) (int, error)
}

// Manager holds the in-memory session id and mirrors changes to the slot
// store. Not safe for concurrent use; the TUI drives it from one goroutine.
type Manager struct {
	slots     *localstate.Store
	sessionID int
	hydrated  bool
}

// New creates an unhydrated Manager. Call Load before any write.
func New(slots *localstate.Store) *Manager {
	return &Manager{slots: slots}
}

// Load hydrates the session id from the slot store and arms the write
// path. A malformed persisted value is discarded.
func (m *Manager) Load(ctx context.Context) error {
	raw, ok, err := m.slots.Get(ctx, localstate.SlotSessionID)
	if err != nil {
		return err
	}
	if ok {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			_ = m.slots.Delete(ctx, localstate.SlotSessionID)
		} else {
			m.sessionID = id
		}
	}
	m.hydrated = true
	return nil
}

// Hydrated reports whether Load has completed.
func (m *Manager) Hydrated() bool {
	return m.hydrated
}

// SessionID returns the in-memory session id, 0 when none.
func (m *Manager) SessionID() int {
	return m.sessionID
}

// Set replaces the session id and mirrors it to the slot store.
func (m *Manager) Set(ctx context.Context, id int) error {
	if !m.hydrated {
		return ErrNotHydrated
	}
	m.sessionID = id
	return m.slots.Put(ctx, localstate.SlotSessionID, strconv.Itoa(id))
}

// Clear forgets the session id and deletes the persisted slot.
func (m *Manager) Clear(ctx context.Context) error {
	if !m.hydrated {
		return ErrNotHydrated
	}
	m.sessionID = 0
	return m.slots.Delete(ctx, localstate.SlotSessionID)
}

// Resolve returns the active session id: the in-memory value when present,
// else the backend's most recent session. A backend-resolved id is adopted
// and persisted so later calls are local.
func (m *Manager) Resolve(ctx context.Context, backend ActiveSessionFetcher) (int, error) {
	if m.sessionID != 0 {
		return m.sessionID, nil
	}
	id, err := backend.ActiveSession(ctx)
	if err != nil {
		return 0, err
	}
	if m.hydrated {
		if err := m.Set(ctx, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}
