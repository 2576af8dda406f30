package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/credstore"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/client/token"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// Controller is the session façade used by the UI layer.
//
// Contract:
//   - Login: authenticate and persist the credential pair in both mediums.
//   - Register: create an account; server field complaints pass through.
//   - Logout: clear both credential mediums; client-side only.
//   - CheckAuth: report whether the session currently holds a usable
//     access token, refreshing it first when it is about to expire.
//   - StartLivenessWatcher: keep a long-idle client's token fresh.
//
// Underlying causes of login failure are normalized into
// common.ErrInvalidCredentials / common.ErrUnavailable; the UI does not
// need to distinguish transport detail beyond that.
type Controller struct {
	api       api.Client
	creds     credstore.Store
	refresher *Refresher
	log       logging.Logger

	// ExpiryThreshold mirrors the pipeline's proactive-refresh window;
	// token.DefaultExpiryThreshold when zero.
	ExpiryThreshold time.Duration
}

func NewController(apiClient api.Client, creds credstore.Store, refresher *Refresher, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{api: apiClient, creds: creds, refresher: refresher, log: log}
}

func (c *Controller) threshold() time.Duration {
	if c.ExpiryThreshold > 0 {
		return c.ExpiryThreshold
	}
	return token.DefaultExpiryThreshold
}

// Login authenticates against the token endpoint and persists the returned
// pair via the credential store. A newly minted pair immediately
// supersedes any prior value in both mediums.
func (c *Controller) Login(ctx context.Context, identifier, secret string) (*models.Credentials, error) {
	creds, err := c.api.Login(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			return nil, common.ErrUnavailable
		}
		c.log.Debug(ctx, "login rejected", "error", err)
		return nil, common.ErrInvalidCredentials
	}

	if err := c.persist(ctx, creds); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}

	c.log.Info(ctx, "login successful")
	return creds, nil
}

func (c *Controller) persist(ctx context.Context, creds *models.Credentials) error {
	if err := c.creds.Set(ctx, common.AccessTokenName, creds.AccessToken, credstore.DefaultTTL); err != nil {
		return err
	}
	return c.creds.Set(ctx, common.RefreshTokenName, creds.RefreshToken, credstore.DefaultTTL)
}

// Register creates a new account. Field-level validation errors from the
// server (api.FieldErrors) are returned unchanged so the UI can attach
// them to the offending inputs.
func (c *Controller) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	user, err := c.api.Register(ctx, reg)
	if err != nil {
		var fe api.FieldErrors
		if errors.As(err, &fe) || errors.Is(err, common.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return user, nil
}

// Logout clears both credential mediums unconditionally. No server call is
// made; the refresh token simply stops being presented.
func (c *Controller) Logout(ctx context.Context) error {
	err := errors.Join(
		c.creds.Remove(ctx, common.AccessTokenName),
		c.creds.Remove(ctx, common.RefreshTokenName),
	)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	c.log.Info(ctx, "logged out")
	return nil
}

// CheckAuth reports whether the session holds a usable access token:
// absent token means no; an expiring token is refreshed first and the
// refresh outcome is the answer; otherwise yes.
func (c *Controller) CheckAuth(ctx context.Context) bool {
	accessToken, err := c.creds.Get(ctx, common.AccessTokenName)
	if err != nil {
		c.log.Error(ctx, "failed to read access token", "error", err)
		return false
	}
	if accessToken == "" {
		return false
	}
	if token.IsExpiringSoon(accessToken, c.threshold()) {
		return c.refresher.Refresh(ctx)
	}
	return true
}

// StartLivenessWatcher blocks, waking every interval to opportunistically
// refresh an access token that is about to expire. It exists so a
// long-idle but open client still holds a fresh token when the user
// resumes, independent of any particular request being made. Run it in
// its own goroutine; it returns when ctx is done.
//
// The watcher never duplicates an exchange already started by the request
// pipeline: TryRefresh skips when one is in flight.
func (c *Controller) StartLivenessWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			accessToken, err := c.creds.Get(ctx, common.AccessTokenName)
			if err != nil || accessToken == "" {
				continue
			}
			if token.IsExpiringSoon(accessToken, c.threshold()) {
				if !c.refresher.TryRefresh(ctx) {
					c.log.Warn(ctx, "liveness refresh failed")
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
