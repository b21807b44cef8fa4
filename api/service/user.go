package service

import (
	"context"
	"errors"
	"time"

	jwt2 "github.com/golang-jwt/jwt/v5"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/domain"
	userPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/jwt"
	timeutils "gitlab.apk-group.net/itops/backend/asset-inventory/pkg/time"
)

var (
	ErrUserOnCreate           = user.ErrUserOnCreate
	ErrUserCreationValidation = user.ErrUserCreationValidation
	ErrUserNotFound           = user.ErrUserNotFound
	ErrSessionOnCreate        = user.ErrSessionOnCreate
	ErrSessionOnInvalidate    = user.ErrSessionOnInvalidate

	ErrInvalidUserPassword = errors.New("invalid username or password")
)

type UserSignUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type UserSignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserSignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserService struct {
	service               userPort.Service
	authSecret            string
	expMin, refreshExpMin uint
}

func NewUserService(srv userPort.Service, authSecret string, expMin, refreshExpMin uint) *UserService {
	return &UserService{
		service:       srv,
		authSecret:    authSecret,
		expMin:        expMin,
		refreshExpMin: refreshExpMin,
	}
}

func (s *UserService) SignUp(ctx context.Context, req *UserSignUpRequest) (*TokenPairResponse, error) {
	uid, err := s.service.CreateUser(ctx, domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Role:      req.Role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.createTokens(uid, req.Username, req.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *UserService) SignIn(ctx context.Context, req *UserSignInRequest) (*TokenPairResponse, error) {
	account, err := s.service.GetUserByUsername(ctx, domain.UserFilter{
		Username: req.Username,
	})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}

	if !account.CheckPasswordHash(req.Password, account.Password) {
		return nil, ErrInvalidUserPassword
	}

	access, refresh, err := s.createTokens(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, err
	}
	err = s.service.StoreUserSession(ctx, domain.Sessions{
		UserID:       account.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		IsLogin:      true,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, ErrSessionOnCreate
	}

	return &TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *UserService) SignOut(ctx context.Context, req *UserSignOutRequest) error {
	if err := s.service.InvalidateUserSession(ctx, req.RefreshToken); err != nil {
		return ErrSessionOnInvalidate
	}
	return nil
}

func (s *UserService) createTokens(userID domain.UserID, username, role string) (access, refresh string, err error) {
	access, err = jwt.CreateToken([]byte(s.authSecret), &jwt.UserClaims{
		RegisteredClaims: jwt2.RegisteredClaims{
			ExpiresAt: jwt2.NewNumericDate(timeutils.AddMinutes(s.expMin, true)),
		},
		UserID:   userID.String(),
		Username: username,
		Role:     role,
	})
	if err != nil {
		return
	}

	refresh, err = jwt.CreateToken([]byte(s.authSecret), &jwt.UserClaims{
		RegisteredClaims: jwt2.RegisteredClaims{
			ExpiresAt: jwt2.NewNumericDate(timeutils.AddMinutes(s.refreshExpMin, true)),
		},
		UserID:   userID.String(),
		Username: username,
		Role:     role,
	})
	if err != nil {
		return
	}

	return
}
