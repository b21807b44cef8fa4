package port

import (
	"context"

	"github.com/google/uuid"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
)

type Repo interface {
	Create(ctx context.Context, asset domain.AssetDomain) (domain.AssetUUID, error)
	Update(ctx context.Context, asset domain.AssetDomain) error
	GetByID(ctx context.Context, assetUUID domain.AssetUUID) (*domain.AssetDomain, error)
	GetBySerialNumber(ctx context.Context, serial string) (*domain.AssetDomain, error)
	GetByAssetTag(ctx context.Context, tag string) (*domain.AssetDomain, error)
	TagExists(ctx context.Context, tag string, excludeID uuid.UUID) (bool, error)
	RenameTag(ctx context.Context, assetID domain.AssetUUID, newTag string) error
	UpdateStatus(ctx context.Context, assetID domain.AssetUUID, status domain.AssetStatus) error
	GetByFilter(ctx context.Context, filter domain.AssetFilters, limit, offset int, sortOptions ...domain.SortOption) ([]domain.AssetDomain, int, error)
	Delete(ctx context.Context, assetUUID domain.AssetUUID) (int, error)
}
