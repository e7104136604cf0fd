package service

import (
	"context"
	"strings"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/policy"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// UserService exposes the user directory operations.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ProfileUpdateInput enumerates the owner-mutable profile fields. Nil means
// leave unchanged; role and email are deliberately absent.
type ProfileUpdateInput struct {
	FullName  *string
	AvatarURL *string
}

// GetProfile returns a directory row readable by the caller.
func (s *UserService) GetProfile(ctx context.Context, caller *domain.User, userID string) (*domain.User, error) {
	if !policy.CanReadUser(caller, userID) {
		return nil, apperrors.NewForbidden("cannot read another user's profile")
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile mutates the caller's own row.
func (s *UserService) UpdateProfile(ctx context.Context, caller *domain.User, userID string, input ProfileUpdateInput) (*domain.User, error) {
	if !policy.CanUpdateUser(caller, userID) {
		return nil, apperrors.NewForbidden("cannot update another user's profile")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("full_name cannot be empty", nil)
		}
		user.FullName = name
	}
	if input.AvatarURL != nil {
		if *input.AvatarURL == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = input.AvatarURL
		}
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListAdmins returns admin profiles, used for assignee selection.
func (s *UserService) ListAdmins(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAdmins(ctx)
}
