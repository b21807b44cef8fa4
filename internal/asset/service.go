package asset

import (
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

var (
	ErrAssetNotFound             = errors.New("asset not found")
	ErrInvalidAssetUUID          = errors.New("invalid asset UUID")
	ErrInvalidAssetStatus        = errors.New("invalid asset status")
	ErrAssetCreateFailed         = errors.New("failed to create asset")
	ErrAssetUpdateFailed         = errors.New("failed to update asset")
	ErrAssetDeleteFailed         = errors.New("failed to delete asset")
	ErrExportFailed              = errors.New("failed to export assets")
	ErrAssetTagAlreadyExists     = domain.ErrAssetTagAlreadyExists
	ErrSerialNumberAlreadyExists = domain.ErrSerialNumberAlreadyExists
)

type service struct {
	repo assetPort.Repo
}

func NewAssetService(repo assetPort.Repo) assetPort.Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateAsset(ctx context.Context, asset domain.AssetDomain) (domain.AssetUUID, error) {
	logger.InfoContextWithFields(ctx, "Internal service: Creating asset", map[string]interface{}{
		"asset_id":      asset.ID.String(),
		"asset_tag":     asset.AssetTag,
		"serial_number": asset.SerialNumber,
		"asset_type":    asset.Type,
	})

	if asset.Status == "" {
		asset.Status = domain.StatusAvailable
	}
	if !asset.Status.Valid() {
		logger.WarnContext(ctx, "Internal service: Rejecting asset with invalid status %q", string(asset.Status))
		return uuid.Nil, ErrInvalidAssetStatus
	}
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}

	assetID, err := s.repo.Create(ctx, asset)
	if err != nil {
		if errors.Is(err, domain.ErrAssetTagAlreadyExists) || errors.Is(err, domain.ErrSerialNumberAlreadyExists) {
			logger.WarnContext(ctx, "Internal service: Asset creation conflict for tag %s: %v", asset.AssetTag, err)
			return uuid.Nil, err
		}
		logger.ErrorContext(ctx, "Internal service: Asset creation failed for tag %s: %v", asset.AssetTag, err)
		return uuid.Nil, ErrAssetCreateFailed
	}

	logger.InfoContext(ctx, "Internal service: Successfully created asset with ID: %s", assetID.String())
	return assetID, nil
}

func (s *service) GetByID(ctx context.Context, assetUUID domain.AssetUUID) (*domain.AssetDomain, error) {
	logger.DebugContext(ctx, "Internal service: Getting asset by ID: %s", assetUUID.String())

	asset, err := s.repo.GetByID(ctx, assetUUID)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: Failed to get asset by ID %s: %v", assetUUID.String(), err)
		return nil, err
	}
	if asset == nil {
		logger.InfoContext(ctx, "Internal service: Asset not found with ID: %s", assetUUID.String())
		return nil, ErrAssetNotFound
	}

	return asset, nil
}

func (s *service) Get(ctx context.Context, filter domain.AssetFilters, limit, offset int, sortOptions ...domain.SortOption) ([]domain.AssetDomain, int, error) {
	logger.InfoContextWithFields(ctx, "Internal service: Getting assets with filters", map[string]interface{}{
		"limit":             limit,
		"offset":            offset,
		"sort_count":        len(sortOptions),
		"has_tag_filter":    filter.AssetTag != "",
		"has_serial_filter": filter.SerialNumber != "",
		"has_status_filter": filter.Status != "",
	})

	assets, total, err := s.repo.GetByFilter(ctx, filter, limit, offset, sortOptions...)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: Failed to get assets with filters: %v", err)
		return nil, 0, err
	}

	return assets, total, nil
}

func (s *service) UpdateAsset(ctx context.Context, asset domain.AssetDomain) error {
	logger.InfoContextWithFields(ctx, "Internal service: Updating asset", map[string]interface{}{
		"asset_id":  asset.ID.String(),
		"asset_tag": asset.AssetTag,
		"status":    string(asset.Status),
	})

	if asset.Status != "" && !asset.Status.Valid() {
		return ErrInvalidAssetStatus
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		if errors.Is(err, domain.ErrAssetTagAlreadyExists) || errors.Is(err, domain.ErrSerialNumberAlreadyExists) {
			logger.WarnContext(ctx, "Internal service: Asset update conflict for asset %s: %v", asset.ID.String(), err)
			return err
		}
		logger.ErrorContext(ctx, "Internal service: Asset update failed for asset %s: %v", asset.ID.String(), err)
		return ErrAssetUpdateFailed
	}

	logger.InfoContext(ctx, "Internal service: Successfully updated asset with ID: %s", asset.ID.String())
	return nil
}

func (s *service) DeleteAsset(ctx context.Context, id string) error {
	assetUUID, err := uuid.Parse(id)
	if err != nil {
		logger.WarnContext(ctx, "Internal service: Invalid asset UUID provided for deletion: %s", id)
		return ErrInvalidAssetUUID
	}

	affected, err := s.repo.Delete(ctx, assetUUID)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: Asset deletion failed: %v", err)
		return ErrAssetDeleteFailed
	}
	if affected == 0 {
		logger.InfoContext(ctx, "Internal service: No assets were deleted (not found)")
		return ErrAssetNotFound
	}

	logger.InfoContext(ctx, "Internal service: Successfully deleted asset %s", id)
	return nil
}

// GenerateCSV renders the given assets as a CSV export. Specification keys are
// flattened into their own columns, collected across the whole export.
func (s *service) GenerateCSV(ctx context.Context, assets []domain.AssetDomain) ([]byte, error) {
	logger.InfoContext(ctx, "Internal service: Generating CSV for %d assets", len(assets))

	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	specKeys := map[string]bool{}
	for _, a := range assets {
		for k := range a.Specifications {
			specKeys[k] = true
		}
	}
	orderedSpecKeys := make([]string, 0, len(specKeys))
	for k := range specKeys {
		orderedSpecKeys = append(orderedSpecKeys, k)
	}
	sort.Strings(orderedSpecKeys)

	headers := []string{"asset_tag", "serial_number", "status", "condition", "asset_type", "make", "model", "assigned_to"}
	headers = append(headers, orderedSpecKeys...)
	if err := writer.Write(headers); err != nil {
		logger.ErrorContext(ctx, "Internal service: Failed to write CSV headers: %v", err)
		return nil, ErrExportFailed
	}

	for _, a := range assets {
		row := []string{a.AssetTag, a.SerialNumber, string(a.Status), a.Condition, a.Type, a.Make, a.Model, a.AssignedTo}
		for _, k := range orderedSpecKeys {
			row = append(row, a.Specifications[k])
		}
		if err := writer.Write(row); err != nil {
			return nil, ErrExportFailed
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.ErrorContext(ctx, "Internal service: CSV writer error: %v", err)
		return nil, ErrExportFailed
	}

	return []byte(sb.String()), nil
}
