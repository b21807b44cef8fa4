package storage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	locPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/location/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// NewLocationRepo creates a new location repository
func NewLocationRepo(db *gorm.DB) locPort.Repo {
	return &locationRepository{
		db: db,
	}
}

type locationRepository struct {
	db *gorm.DB
}

func (r *locationRepository) ListAll(ctx context.Context) ([]locPort.Location, error) {
	var records []types.Location
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list locations: %v", err)
		return nil, err
	}

	locations := make([]locPort.Location, 0, len(records))
	for _, record := range records {
		id, err := uuid.Parse(record.ID)
		if err != nil {
			logger.WarnContext(ctx, "Repository: Skipping location %s with invalid id: %v", record.ID, err)
			continue
		}
		locations = append(locations, locPort.Location{
			ID:   id,
			Name: record.Name,
		})
	}
	return locations, nil
}
