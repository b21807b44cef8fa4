package port

import (
	"context"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
)

type Service interface {
	CreateAsset(ctx context.Context, asset domain.AssetDomain) (domain.AssetUUID, error)
	GetByID(ctx context.Context, assetUUID domain.AssetUUID) (*domain.AssetDomain, error)
	Get(ctx context.Context, filter domain.AssetFilters, limit, offset int, sortOptions ...domain.SortOption) ([]domain.AssetDomain, int, error)
	UpdateAsset(ctx context.Context, asset domain.AssetDomain) error
	DeleteAsset(ctx context.Context, id string) error
	GenerateCSV(ctx context.Context, assets []domain.AssetDomain) ([]byte, error)
}
