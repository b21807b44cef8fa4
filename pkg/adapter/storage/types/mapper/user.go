package mapper

import (
	"github.com/google/uuid"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
)

func UserDomain2Storage(user domain.User) *types.User {
	return &types.User{
		ID:        user.ID.String(),
		FirstName: &user.FirstName,
		LastName:  &user.LastName,
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: &user.UpdatedAt,
	}
}

func UserStorage2Domain(user types.User) (*domain.User, error) {
	uid, err := domain.UserIDFromString(user.ID)

	out := &domain.User{
		ID:        uid,
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.FirstName != nil {
		out.FirstName = *user.FirstName
	}
	if user.LastName != nil {
		out.LastName = *user.LastName
	}
	if user.UpdatedAt != nil {
		out.UpdatedAt = *user.UpdatedAt
	}
	if user.DeletedAt != nil {
		out.DeletedAt = *user.DeletedAt
	}
	return out, err
}

func UserFilterDomain2Storage(filter domain.UserFilter) *types.UserFilter {
	return &types.UserFilter{
		FirstName: filter.FirstName,
		LastName:  filter.LastName,
		Username:  filter.Username,
	}
}

func UserSessionDomain2Storage(session domain.Sessions) *types.Session {
	return &types.Session{
		UserID:       session.UserID.String(),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		IsLogin:      session.IsLogin,
		CreatedAt:    session.CreatedAt,
		LoggedOutAt:  &session.LoggedOutAt,
	}
}

func UserSessionStorage2Domain(session types.Session) (*domain.Sessions, error) {
	uid, err := uuid.Parse(session.UserID)
	out := &domain.Sessions{
		UserID:       uid,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		IsLogin:      session.IsLogin,
		CreatedAt:    session.CreatedAt,
	}
	if session.LoggedOutAt != nil {
		out.LoggedOutAt = *session.LoggedOutAt
	}
	return out, err
}
