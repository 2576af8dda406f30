// Package api implements the HTTP client for the remote task service and
// the request pipeline that keeps every call authenticated.
package api

import (
	"context"

	"github.com/avelasquez-dev/taskdeck/internal/client/models"
)

// Client is the surface of the remote task service the rest of the client
// programs against.
//
// Contract:
//   - Login: exchange identifier/secret for a credential pair.
//   - RefreshToken: mint a new access token from a refresh token.
//   - Register: create an account; field-level server complaints surface
//     as *FieldErrors.
//   - ListTasks/GetTask: read paths; enum values in responses are
//     normalized before being returned.
//   - CreateTask/UpdateTask/DeleteTask: write paths.
//   - Me/UpdateMe: current-user profile.
//
// All methods honor context cancellation and map transport/status failures
// to the sentinels in internal/common.
type Client interface {
	Login(ctx context.Context, identifier, secret string) (*models.Credentials, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)

	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, patch models.UserPatch) (*models.User, error)
}
