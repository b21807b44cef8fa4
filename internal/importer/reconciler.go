package importer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// Reconciler keeps presence links in step with snapshot sources and drives
// the mark/sweep retirement of assets the source stopped reporting.
type Reconciler struct {
	assets     assetPort.Repo
	links      importerPort.SourceLinkRepo
	activities importerPort.ActivityRepo
}

func NewReconciler(assets assetPort.Repo, links importerPort.SourceLinkRepo, activities importerPort.ActivityRepo) *Reconciler {
	return &Reconciler{
		assets:     assets,
		links:      links,
		activities: activities,
	}
}

// RepairOrphans removes links whose external id no longer matches the owning
// asset's serial number. Runs before the mark phase so a stale link cannot
// shield a renumbered asset from the sweep.
func (r *Reconciler) RepairOrphans(ctx context.Context, source domain.SourceSystem) error {
	repaired, err := r.links.DeleteOrphaned(ctx, source)
	if err != nil {
		logger.ErrorContext(ctx, "Reconciler: orphan repair for source %s failed: %v", source, err)
		return err
	}
	if repaired > 0 {
		logger.InfoContext(ctx, "Reconciler: repaired %d orphaned links for source %s", repaired, source)
	}
	return nil
}

// MarkSeen records that the source reported the asset in the current
// snapshot. The serial number is the external identifier on every source.
func (r *Reconciler) MarkSeen(ctx context.Context, source domain.SourceSystem, assetID uuid.UUID, serial string, seenAt time.Time) error {
	return r.links.Upsert(ctx, domain.SourceLink{
		AssetID:      assetID,
		SourceSystem: source,
		ExternalID:   serial,
		LastSeenAt:   seenAt,
		IsPresent:    true,
	})
}

// Sweep retires assets whose presence link for the source predates the run.
// An asset still present in another source, or explicitly excluded by the
// operator, keeps its status; its link is marked absent either way so the
// next snapshot starts from accurate presence data.
func (r *Reconciler) Sweep(ctx context.Context, source domain.SourceSystem, runStart time.Time, skipAssetIDs []uuid.UUID, actor string) ([]uuid.UUID, error) {
	stale, err := r.links.ListStale(ctx, source, runStart)
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}
	logger.InfoContext(ctx, "Reconciler: sweeping %d stale links for source %s", len(stale), source)

	skip := make(map[uuid.UUID]bool, len(skipAssetIDs))
	for _, id := range skipAssetIDs {
		skip[id] = true
	}

	var retired []uuid.UUID
	for _, link := range stale {
		if err := r.links.MarkAbsent(ctx, link.ID); err != nil {
			return retired, err
		}

		if skip[link.AssetID] {
			logger.InfoContext(ctx, "Reconciler: retirement of asset %s skipped by operator override", link.AssetID.String())
			continue
		}

		elsewhere, err := r.presentElsewhere(ctx, link.AssetID, source)
		if err != nil {
			return retired, err
		}
		if elsewhere {
			logger.DebugContext(ctx, "Reconciler: asset %s still present in another source, not retiring", link.AssetID.String())
			continue
		}

		asset, err := r.assets.GetByID(ctx, link.AssetID)
		if err != nil {
			return retired, err
		}
		if asset == nil || asset.Status == assetDomain.StatusRetired {
			continue
		}

		if err := r.assets.UpdateStatus(ctx, link.AssetID, assetDomain.StatusRetired); err != nil {
			return retired, err
		}
		details, _ := json.Marshal(map[string]string{
			"reason":          "absent from " + string(source) + " snapshot",
			"previous_status": string(asset.Status),
		})
		if err := r.activities.Append(ctx, domain.Activity{
			Actor:   actor,
			AssetID: link.AssetID.String(),
			Action:  domain.ActionRetire,
			Details: string(details),
		}); err != nil {
			logger.WarnContext(ctx, "Reconciler: activity append for retired asset %s failed: %v", link.AssetID.String(), err)
		}
		retired = append(retired, link.AssetID)
	}
	return retired, nil
}

// Preview computes the retirements and reactivations a snapshot would cause,
// without writing anything. Serial comparison is case-insensitive to match
// how the sources themselves report identifiers.
func (r *Reconciler) Preview(ctx context.Context, source domain.SourceSystem, incomingSerials []string) (*domain.ReconciliationPreview, error) {
	incoming := make(map[string]bool, len(incomingSerials))
	for _, s := range incomingSerials {
		if s != "" {
			incoming[strings.ToLower(s)] = true
		}
	}

	preview := &domain.ReconciliationPreview{
		WouldRetire:     []domain.PreviewEntry{},
		WouldReactivate: []domain.PreviewEntry{},
	}

	present, err := r.links.ListBySource(ctx, source)
	if err != nil {
		return nil, err
	}
	for _, link := range present {
		if !link.IsPresent || incoming[strings.ToLower(link.ExternalID)] {
			continue
		}
		elsewhere, err := r.presentElsewhere(ctx, link.AssetID, source)
		if err != nil {
			return nil, err
		}
		if elsewhere {
			continue
		}
		asset, err := r.assets.GetByID(ctx, link.AssetID)
		if err != nil {
			return nil, err
		}
		if asset == nil || asset.Status == assetDomain.StatusRetired {
			continue
		}
		preview.WouldRetire = append(preview.WouldRetire, domain.PreviewEntry{
			AssetID:      asset.ID,
			AssetTag:     asset.AssetTag,
			SerialNumber: asset.SerialNumber,
		})
	}

	for _, serial := range incomingSerials {
		if serial == "" {
			continue
		}
		asset, err := r.assets.GetBySerialNumber(ctx, serial)
		if err != nil {
			return nil, err
		}
		if asset == nil || asset.Status != assetDomain.StatusRetired {
			continue
		}
		preview.WouldReactivate = append(preview.WouldReactivate, domain.PreviewEntry{
			AssetID:      asset.ID,
			AssetTag:     asset.AssetTag,
			SerialNumber: asset.SerialNumber,
		})
	}

	return preview, nil
}

func (r *Reconciler) presentElsewhere(ctx context.Context, assetID uuid.UUID, source domain.SourceSystem) (bool, error) {
	links, err := r.links.ListPresentByAsset(ctx, assetID)
	if err != nil {
		return false, err
	}
	for _, l := range links {
		if l.SourceSystem != source && l.IsPresent {
			return true, nil
		}
	}
	return false, nil
}
