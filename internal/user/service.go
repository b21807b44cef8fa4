package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/domain"
	userRepo "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

var (
	ErrUserOnCreate           = errors.New("error on creating new user")
	ErrUserCreationValidation = errors.New("validation failed")
	ErrUserNotFound           = errors.New("user not found")
	ErrSessionOnCreate        = errors.New("error on create session")
	ErrSessionOnInvalidate    = errors.New("error on invalidate session")
)

type userService struct {
	repo userRepo.Repo
}

func NewUserService(repo userRepo.Repo) userRepo.Service {
	return &userService{
		repo: repo,
	}
}

func (s *userService) CreateUser(ctx context.Context, user domain.User) (domain.UserID, error) {
	if user.Username == "" || user.Password == "" {
		return uuid.Nil, ErrUserCreationValidation
	}
	if user.Role == "" {
		user.Role = domain.RoleViewer
	}
	if !domain.ValidRole(user.Role) {
		logger.WarnContext(ctx, "Internal service: rejected user %s with unknown role %q", user.Username, user.Role)
		return uuid.Nil, ErrUserCreationValidation
	}

	hashed, err := domain.HashPassword(user.Password)
	if err != nil {
		return uuid.Nil, ErrUserOnCreate
	}
	user.Password = hashed
	user.ID = uuid.New()

	uid, err := s.repo.Create(ctx, user)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: failed to create user %s: %v", user.Username, err)
		return uuid.Nil, ErrUserOnCreate
	}
	return uid, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, filter)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) StoreUserSession(ctx context.Context, session domain.Sessions) error {
	if err := s.repo.StoreSession(ctx, session); err != nil {
		return ErrSessionOnCreate
	}
	return nil
}

func (s *userService) InvalidateUserSession(ctx context.Context, refreshToken string) error {
	if err := s.repo.InvalidateSession(ctx, refreshToken); err != nil {
		return ErrSessionOnInvalidate
	}
	return nil
}
