package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

func staleLink(assetID uuid.UUID, serial string) domain.SourceLink {
	return domain.SourceLink{
		ID:           uuid.New(),
		AssetID:      assetID,
		SourceSystem: domain.SourceEndpoint,
		ExternalID:   serial,
		LastSeenAt:   time.Now().Add(-48 * time.Hour),
		IsPresent:    true,
	}
}

func TestReconciler_MarkSeen(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	assetID := uuid.New()
	seenAt := time.Now()
	links.On("Upsert", mock.Anything, mock.MatchedBy(func(l domain.SourceLink) bool {
		return l.AssetID == assetID &&
			l.SourceSystem == domain.SourceEndpoint &&
			l.ExternalID == "SN-1" &&
			l.IsPresent &&
			l.LastSeenAt.Equal(seenAt)
	})).Return(nil)

	err := rec.MarkSeen(context.Background(), domain.SourceEndpoint, assetID, "SN-1", seenAt)
	require.NoError(t, err)
	links.AssertExpectations(t)
}

func TestReconciler_SweepRetiresAbsentAssets(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	asset := existingAsset("LAP-GONE", "SN-GONE", assetDomain.StatusAssigned)
	link := staleLink(asset.ID, "SN-GONE")
	runStart := time.Now()

	links.On("ListStale", mock.Anything, domain.SourceEndpoint, runStart).Return([]domain.SourceLink{link}, nil)
	links.On("MarkAbsent", mock.Anything, link.ID).Return(nil)
	links.On("ListPresentByAsset", mock.Anything, asset.ID).Return([]domain.SourceLink{link}, nil)
	assets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	assets.On("UpdateStatus", mock.Anything, asset.ID, assetDomain.StatusRetired).Return(nil)
	activities.On("Append", mock.Anything, mock.MatchedBy(func(a domain.Activity) bool {
		return a.Action == domain.ActionRetire && a.AssetID == asset.ID.String() && a.Actor == "alice"
	})).Return(nil)

	retired, err := rec.Sweep(context.Background(), domain.SourceEndpoint, runStart, nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{asset.ID}, retired)
	assets.AssertExpectations(t)
	links.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestReconciler_SweepHonorsOperatorOverride(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	assetID := uuid.New()
	link := staleLink(assetID, "SN-KEEP")
	runStart := time.Now()

	links.On("ListStale", mock.Anything, domain.SourceEndpoint, runStart).Return([]domain.SourceLink{link}, nil)
	// The link is still marked absent so the next snapshot starts clean.
	links.On("MarkAbsent", mock.Anything, link.ID).Return(nil)

	retired, err := rec.Sweep(context.Background(), domain.SourceEndpoint, runStart, []uuid.UUID{assetID}, "alice")
	require.NoError(t, err)
	assert.Empty(t, retired)
	assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	links.AssertExpectations(t)
}

func TestReconciler_SweepSparesAssetsPresentElsewhere(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	assetID := uuid.New()
	link := staleLink(assetID, "SN-DUAL")
	carrierLink := domain.SourceLink{
		ID:           uuid.New(),
		AssetID:      assetID,
		SourceSystem: domain.SourceCarrier,
		ExternalID:   "SN-DUAL",
		LastSeenAt:   time.Now(),
		IsPresent:    true,
	}
	runStart := time.Now()

	links.On("ListStale", mock.Anything, domain.SourceEndpoint, runStart).Return([]domain.SourceLink{link}, nil)
	links.On("MarkAbsent", mock.Anything, link.ID).Return(nil)
	links.On("ListPresentByAsset", mock.Anything, assetID).Return([]domain.SourceLink{link, carrierLink}, nil)

	retired, err := rec.Sweep(context.Background(), domain.SourceEndpoint, runStart, nil, "alice")
	require.NoError(t, err)
	assert.Empty(t, retired)
	assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciler_SweepSkipsAlreadyRetired(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	asset := existingAsset("LAP-RET", "SN-RET", assetDomain.StatusRetired)
	link := staleLink(asset.ID, "SN-RET")
	runStart := time.Now()

	links.On("ListStale", mock.Anything, domain.SourceEndpoint, runStart).Return([]domain.SourceLink{link}, nil)
	links.On("MarkAbsent", mock.Anything, link.ID).Return(nil)
	links.On("ListPresentByAsset", mock.Anything, asset.ID).Return([]domain.SourceLink{link}, nil)
	assets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	retired, err := rec.Sweep(context.Background(), domain.SourceEndpoint, runStart, nil, "alice")
	require.NoError(t, err)
	assert.Empty(t, retired)
	assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestReconciler_SweepNothingStale(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	runStart := time.Now()
	links.On("ListStale", mock.Anything, domain.SourceEndpoint, runStart).Return([]domain.SourceLink{}, nil)

	retired, err := rec.Sweep(context.Background(), domain.SourceEndpoint, runStart, nil, "alice")
	require.NoError(t, err)
	assert.Empty(t, retired)
}

func TestReconciler_RepairOrphans(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	links.On("DeleteOrphaned", mock.Anything, domain.SourceEndpoint).Return(3, nil)
	require.NoError(t, rec.RepairOrphans(context.Background(), domain.SourceEndpoint))
	links.AssertExpectations(t)
}

func TestReconciler_Preview(t *testing.T) {
	assets := new(MockAssetRepo)
	links := new(MockSourceLinkRepo)
	activities := new(MockActivityRepo)
	rec := importer.NewReconciler(assets, links, activities)

	present := existingAsset("LAP-STAYS", "SN-STAYS", assetDomain.StatusAssigned)
	vanishing := existingAsset("LAP-GOES", "SN-GOES", assetDomain.StatusAssigned)
	retired := existingAsset("LAP-BACK", "SN-BACK", assetDomain.StatusRetired)

	links.On("ListBySource", mock.Anything, domain.SourceEndpoint).Return([]domain.SourceLink{
		staleLink(present.ID, "SN-STAYS"),
		staleLink(vanishing.ID, "SN-GOES"),
	}, nil)
	links.On("ListPresentByAsset", mock.Anything, vanishing.ID).
		Return([]domain.SourceLink{staleLink(vanishing.ID, "SN-GOES")}, nil)
	assets.On("GetByID", mock.Anything, vanishing.ID).Return(vanishing, nil)
	// Incoming serials are matched case-insensitively.
	assets.On("GetBySerialNumber", mock.Anything, "sn-stays").Return(present, nil)
	assets.On("GetBySerialNumber", mock.Anything, "SN-BACK").Return(retired, nil)

	preview, err := rec.Preview(context.Background(), domain.SourceEndpoint, []string{"sn-stays", "SN-BACK"})
	require.NoError(t, err)

	require.Len(t, preview.WouldRetire, 1)
	assert.Equal(t, vanishing.ID, preview.WouldRetire[0].AssetID)
	assert.Equal(t, "LAP-GOES", preview.WouldRetire[0].AssetTag)

	require.Len(t, preview.WouldReactivate, 1)
	assert.Equal(t, retired.ID, preview.WouldReactivate[0].AssetID)

	// Preview never writes.
	links.AssertNotCalled(t, "MarkAbsent", mock.Anything, mock.Anything)
	assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
