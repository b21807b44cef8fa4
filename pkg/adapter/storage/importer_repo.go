package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types/mapper"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// NewSourceLinkRepo creates the external source link repository
func NewSourceLinkRepo(db *gorm.DB) importerPort.SourceLinkRepo {
	return &sourceLinkRepository{
		db: db,
	}
}

type sourceLinkRepository struct {
	db *gorm.DB
}

func (r *sourceLinkRepository) Upsert(ctx context.Context, link domain.SourceLink) error {
	record := mapper.SourceLinkDomain2Storage(link)
	logger.DebugContext(ctx, "Repository: Upserting source link %s/%s for asset %s",
		record.SourceSystem, record.ExternalID, record.AssetID)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_system"}, {Name: "external_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"asset_id":     record.AssetID,
			"last_seen_at": record.LastSeenAt,
			"is_present":   record.IsPresent,
		}),
	}).Create(record).Error
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to upsert source link %s/%s: %v",
			record.SourceSystem, record.ExternalID, err)
	}
	return err
}

func (r *sourceLinkRepository) ListBySource(ctx context.Context, source domain.SourceSystem) ([]domain.SourceLink, error) {
	var records []types.ExternalSourceLink
	if err := r.db.WithContext(ctx).
		Where("source_system = ?", string(source)).
		Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list links for source %s: %v", string(source), err)
		return nil, err
	}
	return r.toDomain(ctx, records), nil
}

func (r *sourceLinkRepository) ListStale(ctx context.Context, source domain.SourceSystem, before time.Time) ([]domain.SourceLink, error) {
	var records []types.ExternalSourceLink
	if err := r.db.WithContext(ctx).
		Where("source_system = ? AND is_present = ? AND last_seen_at < ?", string(source), true, before).
		Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list stale links for source %s: %v", string(source), err)
		return nil, err
	}
	return r.toDomain(ctx, records), nil
}

func (r *sourceLinkRepository) ListPresentByAsset(ctx context.Context, assetID uuid.UUID) ([]domain.SourceLink, error) {
	var records []types.ExternalSourceLink
	if err := r.db.WithContext(ctx).
		Where("asset_id = ? AND is_present = ?", assetID.String(), true).
		Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list present links for asset %s: %v", assetID.String(), err)
		return nil, err
	}
	return r.toDomain(ctx, records), nil
}

func (r *sourceLinkRepository) MarkAbsent(ctx context.Context, linkID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&types.ExternalSourceLink{}).
		Where("id = ?", linkID.String()).
		Update("is_present", false)
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to mark link %s absent: %v", linkID.String(), result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sourceLinkRepository) DeleteOrphaned(ctx context.Context, source domain.SourceSystem) (int, error) {
	// A link is orphaned when its external id no longer equals the owning
	// asset's current serial number, or the asset is gone.
	result := r.db.WithContext(ctx).
		Where("source_system = ?", string(source)).
		Where("NOT EXISTS (SELECT 1 FROM assets a WHERE a.id = external_source_links.asset_id"+
			" AND a.serial_number = external_source_links.external_id AND a.deleted_at IS NULL)").
		Delete(&types.ExternalSourceLink{})
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to delete orphaned links for source %s: %v", string(source), result.Error)
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *sourceLinkRepository) toDomain(ctx context.Context, records []types.ExternalSourceLink) []domain.SourceLink {
	links := make([]domain.SourceLink, 0, len(records))
	for _, record := range records {
		link, err := mapper.SourceLinkStorage2Domain(record)
		if err != nil {
			logger.WarnContext(ctx, "Repository: Skipping link %s with invalid id: %v", record.ID, err)
			continue
		}
		links = append(links, *link)
	}
	return links
}

// NewRuleRepo creates the workload classification rule repository
func NewRuleRepo(db *gorm.DB) importerPort.RuleRepo {
	return &ruleRepository{
		db: db,
	}
}

type ruleRepository struct {
	db *gorm.DB
}

func (r *ruleRepository) ListActiveRules(ctx context.Context) ([]domain.CategoryRule, error) {
	var records []types.WorkloadCategoryRule
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC").
		Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list active classification rules: %v", err)
		return nil, err
	}

	rules := make([]domain.CategoryRule, 0, len(records))
	for _, record := range records {
		rule, err := mapper.RuleStorage2Domain(record)
		if err != nil {
			logger.WarnContext(ctx, "Repository: Skipping rule %s with invalid id: %v", record.ID, err)
			continue
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

// NewSyncRunRepo creates the import sync run repository
func NewSyncRunRepo(db *gorm.DB) importerPort.SyncRunRepo {
	return &syncRunRepository{
		db: db,
	}
}

type syncRunRepository struct {
	db *gorm.DB
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	record := mapper.SyncRunDomain2Storage(*run)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to create sync run: %v", err)
		return err
	}
	run.ID = record.ID
	return nil
}

func (r *syncRunRepository) Finalize(ctx context.Context, run *domain.SyncRun) error {
	if run.ID == 0 {
		return errors.New("sync run has no id")
	}
	record := mapper.SyncRunDomain2Storage(*run)
	result := r.db.WithContext(ctx).Model(&types.ImportSyncRun{}).
		Where("id = ? AND finished_at IS NULL", run.ID).
		Updates(map[string]interface{}{
			"finished_at":       record.FinishedAt,
			"created_count":     record.Created,
			"updated_count":     record.Updated,
			"retired_count":     record.Retired,
			"reactivated_count": record.Reactivated,
			"failed_count":      record.Failed,
			"skipped_count":     record.Skipped,
		})
	if result.Error != nil {
		logger.ErrorContext(ctx, "Repository: Failed to finalize sync run %d: %v", run.ID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.WarnContext(ctx, "Repository: Sync run %d was already finalized", run.ID)
	}
	return nil
}

func (r *syncRunRepository) List(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&types.ImportSyncRun{}).Count(&total).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to count sync runs: %v", err)
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []types.ImportSyncRun
	if err := query.Find(&records).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to list sync runs: %v", err)
		return nil, 0, err
	}

	runs := make([]domain.SyncRun, 0, len(records))
	for _, record := range records {
		runs = append(runs, *mapper.SyncRunStorage2Domain(record))
	}
	return runs, int(total), nil
}

// NewActivityRepo creates the audit activity repository
func NewActivityRepo(db *gorm.DB) importerPort.ActivityRepo {
	return &activityRepository{
		db: db,
	}
}

type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) Append(ctx context.Context, activity domain.Activity) error {
	if err := r.db.WithContext(ctx).Create(mapper.ActivityDomain2Storage(activity)).Error; err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to append activity for asset %s: %v", activity.AssetID, err)
		return err
	}
	return nil
}
