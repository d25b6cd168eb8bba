// Package auth owns the bearer token: one explicit store object with
// read/write/clear operations, injected into whatever issues HTTP calls.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/prepterm/internal/localstate"
)

// Store keeps the bearer token in memory, mirrored to the local state
// store. It implements api.TokenStore. The mutex covers reads from request
// goroutines and the 401 clear the API client issues from them.
type Store struct {
	slots *localstate.Store

	mu    sync.Mutex
	token string
}

// NewStore hydrates the token from the state store. An expired token is
// discarded immediately so the first request fails with a login prompt
// instead of a round-trip 401.
func NewStore(ctx context.Context, slots *localstate.Store) (*Store, error) {
	s := &Store{slots: slots}

	tok, ok, err := slots.Get(ctx, localstate.SlotAuthToken)
	if err != nil {
		return nil, err
	}
	if ok && tok != "" {
		if Expired(tok, time.Now()) {
			_ = slots.Delete(ctx, localstate.SlotAuthToken)
		} else {
			s.token = tok
		}
	}
	return s, nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken stores a fresh token and mirrors it to disk.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.slots.Put(ctx, localstate.SlotAuthToken, token)
}

// Clear forgets the token in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.slots.Delete(context.Background(), localstate.SlotAuthToken)
}

// SignedIn reports whether a token is present.
func (s *Store) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Expired reports whether the token's exp claim is in the past. The
// signature is not (and cannot be) verified client-side; a token without
// a parseable exp claim is treated as live and left to the server.
func Expired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
