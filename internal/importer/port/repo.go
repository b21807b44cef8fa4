package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

// ImportWriter applies one resolved row atomically: the asset write, its
// custom-field values, the workload-category link and the audit activity
// commit or roll back together.
type ImportWriter interface {
	SaveImported(ctx context.Context, asset *assetDomain.AssetDomain, customFields map[string]string, activity domain.Activity) error
}

type SourceLinkRepo interface {
	Upsert(ctx context.Context, link domain.SourceLink) error
	ListBySource(ctx context.Context, source domain.SourceSystem) ([]domain.SourceLink, error)
	// ListStale returns present links of the source not seen since the given time.
	ListStale(ctx context.Context, source domain.SourceSystem, before time.Time) ([]domain.SourceLink, error)
	ListPresentByAsset(ctx context.Context, assetID uuid.UUID) ([]domain.SourceLink, error)
	MarkAbsent(ctx context.Context, linkID uuid.UUID) error
	// DeleteOrphaned removes links whose external id no longer equals the
	// owning asset's serial number. Returns the number of repaired links.
	DeleteOrphaned(ctx context.Context, source domain.SourceSystem) (int, error)
}

type RuleRepo interface {
	ListActiveRules(ctx context.Context) ([]domain.CategoryRule, error)
}

type SyncRunRepo interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	Finalize(ctx context.Context, run *domain.SyncRun) error
	List(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error)
}

type ActivityRepo interface {
	Append(ctx context.Context, activity domain.Activity) error
}
