package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/domain"
	userPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types/mapper"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// NewUserRepo creates a new user repository
func NewUserRepo(db *gorm.DB) userPort.Repo {
	return &userRepository{
		db: db,
	}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.UserID, error) {
	record := mapper.UserDomain2Storage(user)
	record.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to create user %s: %v", user.Username, err)
		return domain.UserID{}, err
	}
	return user.ID, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	var record types.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND deleted_at IS NULL", filter.Username).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get user %s: %v", filter.Username, err)
		return nil, err
	}
	return mapper.UserStorage2Domain(record)
}

func (r *userRepository) StoreSession(ctx context.Context, session domain.Sessions) error {
	record := mapper.UserSessionDomain2Storage(session)
	record.CreatedAt = time.Now()
	record.LoggedOutAt = nil
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to store session for user %s: %v", session.UserID.String(), err)
		return err
	}
	return nil
}

func (r *userRepository) InvalidateSession(ctx context.Context, refreshToken string) error {
	result := r.db.WithContext(ctx).Model(&types.Session{}).
		Where("refresh_token = ? AND is_login = ?", refreshToken, true).
		Updates(map[string]interface{}{
			"is_login":      false,
			"logged_out_at": time.Now(),
		})
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to invalidate session: %v", result.Error)
		return result.Error
	}
	return nil
}
