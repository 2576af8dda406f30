// Package credstore persists the credential pair in two mediums at once:
// an HTTP cookie jar (so server-side route guards see the tokens on every
// request) and a local SQLite key/value table (the fast path for client
// code, surviving restarts). Callers never touch either medium directly;
// the dual store fans writes out to both and keeps reads consistent.
package credstore

import (
	"context"
	"errors"
	"time"

	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// DefaultTTL reflects "stay logged in" semantics for the cookie medium,
// distinct from the access token's own short lifetime.
const DefaultTTL = 31 * 24 * time.Hour

// Medium is a single credential persistence backend.
//
// Contract:
//   - Set: store value under name; ttl is advisory (a medium without
//     expiry semantics ignores it).
//   - Get: return the stored value, or "" with a nil error when absent.
//   - Remove: delete the value; removing an absent name is not an error.
type Medium interface {
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Get(ctx context.Context, name string) (string, error)
	Remove(ctx context.Context, name string) error
}

// Store is the credential API the rest of the client consumes.
type Store interface {
	Medium
	Exists(ctx context.Context, name string) (bool, error)
}

// DualStore fans writes out to both mediums and prefers the cookie medium
// on reads, falling back to the local one. A reader may observe the two
// mediums disagreeing only for the duration of one Set call.
type DualStore struct {
	cookie Medium
	local  Medium
	log    logging.Logger
}

func NewDualStore(cookie, local Medium, log logging.Logger) *DualStore {
	if log == nil {
		log = logging.Nop()
	}
	return &DualStore{cookie: cookie, local: local, log: log}
}

// Set writes the value to both mediums. If either write fails the error is
// returned, but the other medium is still written.
func (s *DualStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	return errors.Join(
		s.cookie.Set(ctx, name, value, ttl),
		s.local.Set(ctx, name, value, ttl),
	)
}

// Get prefers the cookie medium and falls back to the local one. A cookie
// read failure is logged, not returned, as long as the local medium can
// answer.
func (s *DualStore) Get(ctx context.Context, name string) (string, error) {
	v, err := s.cookie.Get(ctx, name)
	if err != nil {
		s.log.Warn(ctx, "cookie medium read failed", "name", name, "error", err)
	} else if v != "" {
		return v, nil
	}
	return s.local.Get(ctx, name)
}

// Remove deletes the value from both mediums.
func (s *DualStore) Remove(ctx context.Context, name string) error {
	return errors.Join(
		s.cookie.Remove(ctx, name),
		s.local.Remove(ctx, name),
	)
}

// Exists reports whether a non-empty value is stored under name.
func (s *DualStore) Exists(ctx context.Context, name string) (bool, error) {
	v, err := s.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return v != "", nil
}
