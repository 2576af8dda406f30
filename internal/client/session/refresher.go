// Package session owns the client-side session lifecycle: logging in and
// out, answering "is the session valid", keeping the access token fresh in
// the background, and serializing concurrent refresh attempts.
package session

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/avelasquez-dev/taskdeck/internal/client/credstore"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// Exchanger mints a new access token from a refresh token. Satisfied by
// api.Client; the narrow interface keeps the refresher testable.
type Exchanger interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Refresher is the single owner of refresh concurrency: at most one token
// exchange is in flight process-wide. It is constructed once and injected
// wherever a fresh token may be needed (the request pipeline, the session
// controller, the liveness watcher).
type Refresher struct {
	creds     credstore.Store
	exchanger Exchanger
	log       logging.Logger

	group    singleflight.Group
	inFlight atomic.Bool
}

const refreshKey = "refresh"

func NewRefresher(creds credstore.Store, exchanger Exchanger, log logging.Logger) *Refresher {
	if log == nil {
		log = logging.Nop()
	}
	return &Refresher{creds: creds, exchanger: exchanger, log: log}
}

// Refresh exchanges the stored refresh token for a new access token and
// reports success. Callers arriving while an exchange is in flight wait
// for it and share its outcome; exactly one call reaches the network.
//
// A missing refresh token fails without a network call. Any exchange
// failure resolves false and deliberately leaves the stored credentials
// untouched: a transient failure must not evict a user who may still hold
// a valid access token.
func (r *Refresher) Refresh(ctx context.Context) bool {
	v, _, _ := r.group.Do(refreshKey, func() (any, error) {
		r.inFlight.Store(true)
		defer r.inFlight.Store(false)
		return r.exchange(ctx), nil
	})
	ok, _ := v.(bool)
	return ok
}

// TryRefresh is the periodic-check entry point: if an exchange is already
// in flight it neither starts nor joins one, and reports true so the
// caller simply proceeds with the existing token.
func (r *Refresher) TryRefresh(ctx context.Context) bool {
	if r.InFlight() {
		return true
	}
	return r.Refresh(ctx)
}

// InFlight reports whether a token exchange is currently running.
func (r *Refresher) InFlight() bool {
	return r.inFlight.Load()
}

func (r *Refresher) exchange(ctx context.Context) bool {
	refreshToken, err := r.creds.Get(ctx, common.RefreshTokenName)
	if err != nil {
		r.log.Error(ctx, "failed to read refresh token", "error", err)
		return false
	}
	if refreshToken == "" {
		r.log.Debug(ctx, "no refresh token stored, skipping exchange")
		return false
	}

	accessToken, err := r.exchanger.RefreshToken(ctx, refreshToken)
	if err != nil {
		r.log.Warn(ctx, "token exchange failed, keeping existing credentials", "error", err)
		return false
	}

	if err := r.creds.Set(ctx, common.AccessTokenName, accessToken, credstore.DefaultTTL); err != nil {
		r.log.Error(ctx, "failed to persist refreshed access token", "error", err)
		return false
	}

	r.log.Debug(ctx, "access token refreshed")
	return true
}
