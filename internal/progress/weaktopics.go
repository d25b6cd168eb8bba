// Package progress fetches per-session progress aggregates. The weak-topics
// fetch is cancellable and keyed to the session it was started for, so a
// stale response never overwrites state belonging to a newer session.
package progress

import (
	"context"
	"errors"

	"github.com/abhisek/prepterm/internal/api"
)

// Backend is the slice of the API client the fetcher needs.
type Backend interface {
	WeakTopics(ctx context.Context, sessionID int) ([]api.WeakTopic, error)
}

// Result carries one completed fetch back to the UI goroutine, tagged with
// the session it was issued for.
type Result struct {
	SessionID int
	Topics    []api.WeakTopic
	Err       error
}

// Fetcher owns the weak-topics state for whichever session is current.
// Begin/Accept/Stop run on the UI goroutine; only the returned fetch
// closure runs elsewhere.
type Fetcher struct {
	backend Backend
	cancel  context.CancelFunc
	session int

	Topics []api.WeakTopic
	Busy   bool
	Err    string
}

func NewFetcher(backend Backend) *Fetcher {
	return &Fetcher{backend: backend}
}

// Begin starts a fetch for sessionID, cancelling any fetch still in flight
// for a previous session. The returned closure performs the network call
// and must be run off the UI goroutine; its Result goes to Accept.
func (f *Fetcher) Begin(parent context.Context, sessionID int) func() Result {
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.session = sessionID
	f.Busy = true
	f.Err = ""

	backend := f.backend
	return func() Result {
		topics, err := backend.WeakTopics(ctx, sessionID)
		return Result{SessionID: sessionID, Topics: topics, Err: err}
	}
}

// Accept applies a completed fetch. Results for any session other than the
// current one are dropped, as are cancelled fetches. Reports whether the
// result was applied.
func (f *Fetcher) Accept(r Result) bool {
	if r.SessionID != f.session {
		return false
	}
	f.Busy = false
	if r.Err != nil {
		if !errors.Is(r.Err, context.Canceled) {
			f.Err = r.Err.Error()
		}
		return false
	}
	f.Topics = r.Topics
	return true
}

// Stop cancels any in-flight fetch and clears the fetcher, used when the
// owning view goes away.
func (f *Fetcher) Stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.session = 0
	f.Busy = false
	f.Topics = nil
	f.Err = ""
}
