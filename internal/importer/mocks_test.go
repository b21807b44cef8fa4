package importer_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	directoryDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

// MockAssetRepo is a mock implementation of the assetPort.Repo interface
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, asset assetDomain.AssetDomain) (assetDomain.AssetUUID, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(assetDomain.AssetUUID), args.Error(1)
}

func (m *MockAssetRepo) Update(ctx context.Context, asset assetDomain.AssetDomain) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepo) GetByID(ctx context.Context, assetUUID assetDomain.AssetUUID) (*assetDomain.AssetDomain, error) {
	args := m.Called(ctx, assetUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetDomain.AssetDomain), args.Error(1)
}

func (m *MockAssetRepo) GetBySerialNumber(ctx context.Context, serial string) (*assetDomain.AssetDomain, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetDomain.AssetDomain), args.Error(1)
}

func (m *MockAssetRepo) GetByAssetTag(ctx context.Context, tag string) (*assetDomain.AssetDomain, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetDomain.AssetDomain), args.Error(1)
}

func (m *MockAssetRepo) TagExists(ctx context.Context, tag string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tag, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepo) RenameTag(ctx context.Context, assetID assetDomain.AssetUUID, newTag string) error {
	args := m.Called(ctx, assetID, newTag)
	return args.Error(0)
}

func (m *MockAssetRepo) UpdateStatus(ctx context.Context, assetID assetDomain.AssetUUID, status assetDomain.AssetStatus) error {
	args := m.Called(ctx, assetID, status)
	return args.Error(0)
}

func (m *MockAssetRepo) GetByFilter(ctx context.Context, filter assetDomain.AssetFilters, limit, offset int, sortOptions ...assetDomain.SortOption) ([]assetDomain.AssetDomain, int, error) {
	args := m.Called(ctx, filter, limit, offset, sortOptions)
	return args.Get(0).([]assetDomain.AssetDomain), args.Get(1).(int), args.Error(2)
}

func (m *MockAssetRepo) Delete(ctx context.Context, assetUUID assetDomain.AssetUUID) (int, error) {
	args := m.Called(ctx, assetUUID)
	return args.Get(0).(int), args.Error(1)
}

// MockImportWriter is a mock implementation of the importerPort.ImportWriter interface
type MockImportWriter struct {
	mock.Mock
}

func (m *MockImportWriter) SaveImported(ctx context.Context, asset *assetDomain.AssetDomain, customFields map[string]string, activity domain.Activity) error {
	args := m.Called(ctx, asset, customFields, activity)
	return args.Error(0)
}

// MockSourceLinkRepo is a mock implementation of the importerPort.SourceLinkRepo interface
type MockSourceLinkRepo struct {
	mock.Mock
}

func (m *MockSourceLinkRepo) Upsert(ctx context.Context, link domain.SourceLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockSourceLinkRepo) ListBySource(ctx context.Context, source domain.SourceSystem) ([]domain.SourceLink, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceLink), args.Error(1)
}

func (m *MockSourceLinkRepo) ListStale(ctx context.Context, source domain.SourceSystem, before time.Time) ([]domain.SourceLink, error) {
	args := m.Called(ctx, source, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceLink), args.Error(1)
}

func (m *MockSourceLinkRepo) ListPresentByAsset(ctx context.Context, assetID uuid.UUID) ([]domain.SourceLink, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceLink), args.Error(1)
}

func (m *MockSourceLinkRepo) MarkAbsent(ctx context.Context, linkID uuid.UUID) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

func (m *MockSourceLinkRepo) DeleteOrphaned(ctx context.Context, source domain.SourceSystem) (int, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(int), args.Error(1)
}

// MockRuleRepo is a mock implementation of the importerPort.RuleRepo interface
type MockRuleRepo struct {
	mock.Mock
}

func (m *MockRuleRepo) ListActiveRules(ctx context.Context) ([]domain.CategoryRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryRule), args.Error(1)
}

// MockSyncRunRepo is a mock implementation of the importerPort.SyncRunRepo interface
type MockSyncRunRepo struct {
	mock.Mock
}

func (m *MockSyncRunRepo) Create(ctx context.Context, run *domain.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepo) Finalize(ctx context.Context, run *domain.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepo) List(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int), args.Error(2)
	}
	return args.Get(0).([]domain.SyncRun), args.Get(1).(int), args.Error(2)
}

// MockActivityRepo is a mock implementation of the importerPort.ActivityRepo interface
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Append(ctx context.Context, activity domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

// MockDirectoryResolver is a mock implementation of the directory port.Resolver interface
type MockDirectoryResolver struct {
	mock.Mock
}

func (m *MockDirectoryResolver) ResolveBySamAccount(ctx context.Context, names []string) (map[string]*directoryDomain.Identity, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*directoryDomain.Identity), args.Error(1)
}

func (m *MockDirectoryResolver) ResolveByDisplayName(ctx context.Context, names []string) (map[string]*directoryDomain.Identity, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*directoryDomain.Identity), args.Error(1)
}

// MockLocationMatcher is a mock implementation of the location port.Matcher interface
type MockLocationMatcher struct {
	mock.Mock
}

func (m *MockLocationMatcher) MatchLocations(ctx context.Context, labels []string) (map[string]*uuid.UUID, error) {
	args := m.Called(ctx, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*uuid.UUID), args.Error(1)
}
