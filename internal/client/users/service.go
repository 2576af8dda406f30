// Package users exposes the signed-in user's profile.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

type Service struct {
	api api.Client
	log logging.Logger
}

func NewService(apiClient api.Client, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{api: apiClient, log: log}
}

// Me fetches the profile of the user owning the current session.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	u, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return u, nil
}

// Update applies a partial profile update. A blank email or username in
// the patch is rejected locally; field-level server complaints pass
// through as api.FieldErrors.
func (s *Service) Update(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return nil, fmt.Errorf("%w: email must not be blank", common.ErrValidation)
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, fmt.Errorf("%w: username must not be blank", common.ErrValidation)
	}

	u, err := s.api.UpdateMe(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.log.Info(ctx, "profile updated", "user_id", u.ID)
	return u, nil
}
