package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez-dev/taskdeck/internal/client/credstore"
	"github.com/avelasquez-dev/taskdeck/internal/client/token"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// TokenRefresher mints a new access token into the credential store and
// reports success. Concurrent callers share a single in-flight exchange.
type TokenRefresher interface {
	Refresh(ctx context.Context) bool
}

// Transport is the request pipeline: an http.RoundTripper that attaches
// the current access token to every outgoing call and recovers from
// authentication failures.
//
// Outbound: calls to the token-refresh endpoint pass through untouched
// (recursion guard). For everything else, if the stored access token is
// expiring soon, a refresh is triggered first; whichever token is current
// afterwards is attached as a bearer Authorization header. A failed
// proactive refresh does not block the request; it proceeds with the
// stale token and lets the server be the judge.
//
// Inbound: a 401 from the token endpoint itself means rejected
// credentials and passes through untouched. Any other 401 triggers one
// refresh (joining any exchange already in flight) and one replay of the
// original request with the new token. A 401 on the replay, or a failed
// refresh, tears the
// session down: both credential mediums are cleared and OnSessionExpired
// fires.
type Transport struct {
	creds     credstore.Store
	refresher TokenRefresher

	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	// ExpiryThreshold is how close to expiry the access token may get
	// before a proactive refresh; token.DefaultExpiryThreshold when zero.
	ExpiryThreshold time.Duration

	// OnSessionExpired is invoked after session teardown, so the UI layer
	// can send the user back to the login entry point. May be nil.
	OnSessionExpired func()

	log logging.Logger
}

func NewTransport(creds credstore.Store, refresher TokenRefresher, log logging.Logger) *Transport {
	if log == nil {
		log = logging.Nop()
	}
	return &Transport{creds: creds, refresher: refresher, log: log}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) threshold() time.Duration {
	if t.ExpiryThreshold > 0 {
		return t.ExpiryThreshold
	}
	return token.DefaultExpiryThreshold
}

func isRefreshCall(req *http.Request) bool {
	return strings.HasSuffix(req.URL.Path, common.TokenRefreshPath)
}

// isLoginCall reports whether req targets the token endpoint. A 401 from
// it means rejected credentials, not an expired session, so the reactive
// recovery path must leave it alone.
func isLoginCall(req *http.Request) bool {
	return strings.HasSuffix(req.URL.Path, common.TokenPath) && !isRefreshCall(req)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isRefreshCall(req) {
		return t.base().RoundTrip(req)
	}

	ctx := req.Context()

	accessToken, err := t.creds.Get(ctx, common.AccessTokenName)
	if err != nil {
		t.log.Warn(ctx, "reading access token failed", "error", err)
	}
	if token.IsExpiringSoon(accessToken, t.threshold()) {
		// Outcome deliberately ignored: a failed proactive refresh must
		// not block the request.
		t.refresher.Refresh(ctx)
		if refreshed, err := t.creds.Get(ctx, common.AccessTokenName); err == nil {
			accessToken = refreshed
		}
	}

	out := req.Clone(ctx)
	if accessToken != "" {
		out.Header.Set(common.AuthorizationHeader, "Bearer "+accessToken)
	}
	out.Header.Set(common.RequestIDHeader, uuid.NewString())

	resp, err := t.base().RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || isLoginCall(req) {
		return resp, err
	}

	// Reactive path: one refresh, one replay.
	if !t.refresher.Refresh(ctx) {
		t.teardown(ctx)
		return resp, nil
	}

	retry, ok := t.rewind(out)
	if !ok {
		t.log.Warn(ctx, "401 response but request body is not replayable", "path", req.URL.Path)
		t.teardown(ctx)
		return resp, nil
	}

	drain(resp)

	newToken, err := t.creds.Get(ctx, common.AccessTokenName)
	if err != nil || newToken == "" {
		t.teardown(ctx)
		return resp, nil
	}
	retry.Header.Set(common.AuthorizationHeader, "Bearer "+newToken)

	t.log.Info(ctx, "replaying request after token refresh", "path", req.URL.Path)
	resp2, err := t.base().RoundTrip(retry)
	if err != nil {
		return resp2, err
	}
	if resp2.StatusCode == http.StatusUnauthorized {
		// Already retried once; a second 401 is terminal.
		t.teardown(ctx)
	}
	return resp2, nil
}

// rewind builds a fresh copy of the request for the single retry. Requests
// carrying a one-shot body without GetBody cannot be replayed.
func (t *Transport) rewind(req *http.Request) (*http.Request, bool) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry.Body = body
	return retry, true
}

// teardown clears both credential mediums and notifies the UI layer.
func (t *Transport) teardown(ctx context.Context) {
	t.log.Warn(ctx, "session teardown: clearing credentials")
	if err := t.creds.Remove(ctx, common.AccessTokenName); err != nil {
		t.log.Error(ctx, "failed to remove access token", "error", err)
	}
	if err := t.creds.Remove(ctx, common.RefreshTokenName); err != nil {
		t.log.Error(ctx, "failed to remove refresh token", "error", err)
	}
	if t.OnSessionExpired != nil {
		t.OnSessionExpired()
	}
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
