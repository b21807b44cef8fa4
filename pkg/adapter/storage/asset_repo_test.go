package storage_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage"
)

type AssetRepoTestSuite struct {
	db     *sql.DB
	gormDB *gorm.DB
	mock   sqlmock.Sqlmock
	repo   assetPort.Repo
	ctx    context.Context
}

func setupAssetRepoTest(t *testing.T) *AssetRepoTestSuite {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return &AssetRepoTestSuite{
		db:     db,
		gormDB: gormDB,
		mock:   mock,
		repo:   storage.NewAssetRepo(gormDB),
		ctx:    context.Background(),
	}
}

func (suite *AssetRepoTestSuite) tearDown() {
	suite.db.Close()
}

func TestAssetRepository_GetBySerialNumber_Found(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	assetID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "asset_tag", "serial_number", "status", "asset_type"}).
		AddRow(assetID.String(), "LAP-240101-001", "SN-1", "assigned", "LAPTOP")
	suite.mock.ExpectQuery("SELECT \\* FROM `assets`").
		WithArgs("SN-1", 1).
		WillReturnRows(rows)

	asset, err := suite.repo.GetBySerialNumber(suite.ctx, "SN-1")

	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.Equal(t, assetID, asset.ID)
	assert.Equal(t, "LAP-240101-001", asset.AssetTag)
	assert.Equal(t, domain.StatusAssigned, asset.Status)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_GetBySerialNumber_NotFoundIsNil(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectQuery("SELECT \\* FROM `assets`").
		WithArgs("SN-MISSING", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	asset, err := suite.repo.GetBySerialNumber(suite.ctx, "SN-MISSING")

	assert.NoError(t, err, "a missing record is not an error")
	assert.Nil(t, asset)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_GetBySerialNumber_EmptyKeyShortCircuits(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	asset, err := suite.repo.GetBySerialNumber(suite.ctx, "")

	assert.NoError(t, err)
	assert.Nil(t, asset)
	assert.NoError(t, suite.mock.ExpectationsWereMet(), "no query must be issued for an empty serial")
}

func TestAssetRepository_TagExists(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assets`").
		WithArgs("LAP-240101-001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := suite.repo.TagExists(suite.ctx, "LAP-240101-001", uuid.Nil)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_TagExists_ExcludesAsset(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	excludeID := uuid.New()
	suite.mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assets`").
		WithArgs("LAP-240101-001", excludeID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := suite.repo.TagExists(suite.ctx, "LAP-240101-001", excludeID)

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_RenameTag(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	assetID := uuid.New()
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repo.RenameTag(suite.ctx, assetID, "LAP-240101-001-superseded-AB12")

	assert.NoError(t, err)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_RenameTag_MissingAsset(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectCommit()

	err := suite.repo.RenameTag(suite.ctx, uuid.New(), "LAP-NEW")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_UpdateStatus(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repo.UpdateStatus(suite.ctx, uuid.New(), domain.StatusRetired)

	assert.NoError(t, err)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestAssetRepository_Delete_SoftDelete(t *testing.T) {
	suite := setupAssetRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	affected, err := suite.repo.Delete(suite.ctx, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}
