package mapper

import (
	"github.com/google/uuid"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
)

func SourceLinkDomain2Storage(link domain.SourceLink) *types.ExternalSourceLink {
	id := link.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &types.ExternalSourceLink{
		ID:           id.String(),
		AssetID:      link.AssetID.String(),
		SourceSystem: string(link.SourceSystem),
		ExternalID:   link.ExternalID,
		LastSeenAt:   link.LastSeenAt,
		IsPresent:    link.IsPresent,
	}
}

func SourceLinkStorage2Domain(link types.ExternalSourceLink) (*domain.SourceLink, error) {
	id, err := uuid.Parse(link.ID)
	if err != nil {
		return nil, err
	}
	assetID, err := uuid.Parse(link.AssetID)
	if err != nil {
		return nil, err
	}
	return &domain.SourceLink{
		ID:           id,
		AssetID:      assetID,
		SourceSystem: domain.SourceSystem(link.SourceSystem),
		ExternalID:   link.ExternalID,
		LastSeenAt:   link.LastSeenAt,
		IsPresent:    link.IsPresent,
	}, nil
}

func RuleStorage2Domain(rule types.WorkloadCategoryRule) (*domain.CategoryRule, error) {
	id, err := uuid.Parse(rule.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(rule.CategoryID)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryRule{
		ID:          id,
		CategoryID:  categoryID,
		Priority:    rule.Priority,
		SourceField: rule.SourceField,
		Operator:    domain.RuleOperator(rule.Operator),
		Value:       rule.Value,
		IsActive:    rule.IsActive,
	}, nil
}

func SyncRunDomain2Storage(run domain.SyncRun) *types.ImportSyncRun {
	return &types.ImportSyncRun{
		ID:           run.ID,
		SourceSystem: string(run.SourceSystem),
		FullSnapshot: run.FullSnapshot,
		InitiatedBy:  run.InitiatedBy,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Created:      run.Created,
		Updated:      run.Updated,
		Retired:      run.Retired,
		Reactivated:  run.Reactivated,
		Failed:       run.Failed,
		Skipped:      run.Skipped,
	}
}

func SyncRunStorage2Domain(run types.ImportSyncRun) *domain.SyncRun {
	return &domain.SyncRun{
		ID:           run.ID,
		SourceSystem: domain.SourceSystem(run.SourceSystem),
		FullSnapshot: run.FullSnapshot,
		InitiatedBy:  run.InitiatedBy,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Created:      run.Created,
		Updated:      run.Updated,
		Retired:      run.Retired,
		Reactivated:  run.Reactivated,
		Failed:       run.Failed,
		Skipped:      run.Skipped,
	}
}

func ActivityDomain2Storage(activity domain.Activity) *types.ActivityLog {
	record := &types.ActivityLog{
		ID:      uuid.New().String(),
		Actor:   activity.Actor,
		AssetID: activity.AssetID,
		Action:  activity.Action,
	}
	if activity.Details != "" {
		record.Details = &activity.Details
	}
	return record
}
