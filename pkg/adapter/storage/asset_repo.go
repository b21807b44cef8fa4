package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	importerDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types/mapper"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// NewAssetRepo creates a new asset repository
func NewAssetRepo(db *gorm.DB) assetPort.Repo {
	return &assetRepository{
		db: db,
	}
}

// NewImportWriter exposes the same repository as the importer's atomic writer.
func NewImportWriter(db *gorm.DB) importerPort.ImportWriter {
	return &assetRepository{
		db: db,
	}
}

// assetRepository implements the assetPort.Repo interface
type assetRepository struct {
	db *gorm.DB
}

func (r *assetRepository) beginTransaction(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to begin transaction: %v", tx.Error)
		return nil, tx.Error
	}
	return tx, nil
}

func (r *assetRepository) Create(ctx context.Context, asset domain.AssetDomain) (domain.AssetUUID, error) {
	logger.InfoContextWithFields(ctx, "Repository: Creating asset", map[string]interface{}{
		"asset_id":      asset.ID.String(),
		"asset_tag":     asset.AssetTag,
		"serial_number": asset.SerialNumber,
		"asset_type":    asset.Type,
	})

	var count int64
	if err := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("serial_number = ? AND deleted_at IS NULL", asset.SerialNumber).
		Count(&count).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to check serial number uniqueness: %v", err)
		return domain.AssetUUID{}, err
	}
	if count > 0 {
		logger.WarnContext(ctx, "Repository: Serial number %s already exists", asset.SerialNumber)
		return domain.AssetUUID{}, domain.ErrSerialNumberAlreadyExists
	}

	if err := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("asset_tag = ? AND deleted_at IS NULL", asset.AssetTag).
		Count(&count).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to check asset tag uniqueness: %v", err)
		return domain.AssetUUID{}, err
	}
	if count > 0 {
		logger.WarnContext(ctx, "Repository: Asset tag %s already exists", asset.AssetTag)
		return domain.AssetUUID{}, domain.ErrAssetTagAlreadyExists
	}

	record := mapper.AssetDomain2Storage(asset)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to create asset: %v", err)
		return domain.AssetUUID{}, err
	}

	logger.InfoContext(ctx, "Repository: Successfully created asset %s", asset.ID.String())
	return asset.ID, nil
}

func (r *assetRepository) Update(ctx context.Context, asset domain.AssetDomain) error {
	logger.DebugContext(ctx, "Repository: Updating asset %s", asset.ID.String())

	record := mapper.AssetDomain2Storage(asset)
	result := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("id = ? AND deleted_at IS NULL", asset.ID.String()).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(record)
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to update asset %s: %v", asset.ID.String(), result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, assetUUID domain.AssetUUID) (*domain.AssetDomain, error) {
	var record types.Asset
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", assetUUID.String()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get asset by id %s: %v", assetUUID.String(), err)
		return nil, err
	}
	return mapper.AssetStorage2Domain(record)
}

func (r *assetRepository) GetBySerialNumber(ctx context.Context, serial string) (*domain.AssetDomain, error) {
	if serial == "" {
		return nil, nil
	}
	var record types.Asset
	err := r.db.WithContext(ctx).
		Where("serial_number = ? AND deleted_at IS NULL", serial).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get asset by serial %s: %v", serial, err)
		return nil, err
	}
	return mapper.AssetStorage2Domain(record)
}

func (r *assetRepository) GetByAssetTag(ctx context.Context, tag string) (*domain.AssetDomain, error) {
	if tag == "" {
		return nil, nil
	}
	var record types.Asset
	err := r.db.WithContext(ctx).
		Where("asset_tag = ? AND deleted_at IS NULL", tag).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get asset by tag %s: %v", tag, err)
		return nil, err
	}
	return mapper.AssetStorage2Domain(record)
}

func (r *assetRepository) TagExists(ctx context.Context, tag string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("asset_tag = ? AND deleted_at IS NULL", tag)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID.String())
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to check tag existence for %s: %v", tag, err)
		return false, err
	}
	return count > 0, nil
}

func (r *assetRepository) RenameTag(ctx context.Context, assetID domain.AssetUUID, newTag string) error {
	logger.InfoContext(ctx, "Repository: Renaming tag of asset %s to %s", assetID.String(), newTag)

	result := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("id = ? AND deleted_at IS NULL", assetID.String()).
		Updates(map[string]interface{}{
			"asset_tag":  newTag,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to rename tag for asset %s: %v", assetID.String(), result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assetRepository) UpdateStatus(ctx context.Context, assetID domain.AssetUUID, status domain.AssetStatus) error {
	logger.InfoContext(ctx, "Repository: Updating status of asset %s to %s", assetID.String(), string(status))

	result := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("id = ? AND deleted_at IS NULL", assetID.String()).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to update status for asset %s: %v", assetID.String(), result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assetRepository) GetByFilter(ctx context.Context, filter domain.AssetFilters, limit, offset int, sortOptions ...domain.SortOption) ([]domain.AssetDomain, int, error) {
	query := r.db.WithContext(ctx).Model(&types.Asset{}).Where("deleted_at IS NULL")

	if filter.AssetTag != "" {
		query = query.Where("asset_tag LIKE ?", "%"+filter.AssetTag+"%")
	}
	if filter.SerialNumber != "" {
		query = query.Where("serial_number LIKE ?", "%"+filter.SerialNumber+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("asset_type = ?", filter.Type)
	}
	if filter.Make != "" {
		query = query.Where("make LIKE ?", "%"+filter.Make+"%")
	}
	if filter.Model != "" {
		query = query.Where("model LIKE ?", "%"+filter.Model+"%")
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to LIKE ?", "%"+filter.AssignedTo+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to count filtered assets: %v", err)
		return nil, 0, err
	}

	for _, sort := range sortOptions {
		column, ok := sortColumns[sort.Field]
		if !ok {
			continue
		}
		order := "ASC"
		if sort.Order == "desc" || sort.Order == "DESC" {
			order = "DESC"
		}
		query = query.Order(column + " " + order)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []types.Asset
	if err := query.Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list filtered assets: %v", err)
		return nil, 0, err
	}

	assets := make([]domain.AssetDomain, 0, len(records))
	for _, record := range records {
		asset, err := mapper.AssetStorage2Domain(record)
		if err != nil {
			logger.WarnContext(ctx, "Repository: Skipping asset %s with invalid id: %v", record.ID, err)
			continue
		}
		assets = append(assets, *asset)
	}
	return assets, int(total), nil
}

// sortColumns whitelists sortable fields against injection through sort params.
var sortColumns = map[string]string{
	"asset_tag":     "asset_tag",
	"serial_number": "serial_number",
	"status":        "status",
	"asset_type":    "asset_type",
	"make":          "make",
	"model":         "model",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

func (r *assetRepository) Delete(ctx context.Context, assetUUID domain.AssetUUID) (int, error) {
	logger.InfoContext(ctx, "Repository: Soft deleting asset %s", assetUUID.String())

	result := r.db.WithContext(ctx).Model(&types.Asset{}).
		Where("id = ? AND deleted_at IS NULL", assetUUID.String()).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to delete asset %s: %v", assetUUID.String(), result.Error)
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// SaveImported writes one resolved import row atomically: the asset record,
// its custom-field values and the audit entry commit or roll back together.
func (r *assetRepository) SaveImported(ctx context.Context, asset *domain.AssetDomain, customFields map[string]string, activity importerDomain.Activity) error {
	logger.DebugContext(ctx, "Repository: Saving imported asset %s (%s)", asset.ID.String(), asset.AssetTag)

	tx, err := r.beginTransaction(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "Repository: Panic during imported asset save, rolling back: %v", rec)
			tx.Rollback()
		}
	}()

	record := mapper.AssetDomain2Storage(*asset)

	var count int64
	if err := tx.Model(&types.Asset{}).
		Where("id = ?", record.ID).
		Count(&count).Error; err != nil {
		tx.Rollback()
		return err
	}
	if count > 0 {
		if err := tx.Model(&types.Asset{}).
			Where("id = ?", record.ID).
			Select("*").Omit("id", "created_at", "deleted_at").
			Updates(record).Error; err != nil {
			tx.Rollback()
			logger.ErrorContext(ctx, "Repository: Failed to update imported asset %s: %v", record.ID, err)
			return err
		}
	} else {
		if err := tx.Create(record).Error; err != nil {
			tx.Rollback()
			logger.ErrorContext(ctx, "Repository: Failed to create imported asset %s: %v", record.ID, err)
			return err
		}
	}

	for fieldID, value := range customFields {
		cfv := types.CustomFieldValue{
			ID:            uuid.New().String(),
			AssetID:       record.ID,
			CustomFieldID: fieldID,
			Value:         value,
		}
		if err := tx.Where("asset_id = ? AND custom_field_id = ?", record.ID, fieldID).
			Delete(&types.CustomFieldValue{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Create(&cfv).Error; err != nil {
			tx.Rollback()
			logger.ErrorContext(ctx, "Repository: Failed to save custom field %s for asset %s: %v", fieldID, record.ID, err)
			return err
		}
	}

	if err := tx.Create(mapper.ActivityDomain2Storage(activity)).Error; err != nil {
		tx.Rollback()
		logger.ErrorContext(ctx, "Repository: Failed to append activity for asset %s: %v", record.ID, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to commit imported asset save: %v", err)
		return err
	}
	return nil
}
