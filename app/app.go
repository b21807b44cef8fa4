package app

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gitlab.apk-group.net/itops/backend/asset-inventory/config"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory"
	directoryPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/location"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/user"
	userDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/domain"
	userPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage"
	appCtx "gitlab.apk-group.net/itops/backend/asset-inventory/pkg/context"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/mysql"
)

type app struct {
	db            *gorm.DB
	cfg           config.Config
	assetService  assetPort.Service
	userService   userPort.Service
	importService importerPort.Service
	directory     directoryPort.Resolver
}

func (a *app) assetServiceWithDB(db *gorm.DB) assetPort.Service {
	return asset.NewAssetService(storage.NewAssetRepo(db))
}

func (a *app) AssetService(ctx context.Context) assetPort.Service {
	db := appCtx.GetDB(ctx)
	if db == nil {
		if a.assetService == nil {
			a.assetService = a.assetServiceWithDB(a.db)
		}
		return a.assetService
	}

	return a.assetServiceWithDB(db)
}

func (a *app) userServiceWithDB(db *gorm.DB) userPort.Service {
	return user.NewUserService(storage.NewUserRepo(db))
}

func (a *app) UserService(ctx context.Context) userPort.Service {
	db := appCtx.GetDB(ctx)
	if db == nil {
		if a.userService == nil {
			a.userService = a.userServiceWithDB(a.db)
		}
		return a.userService
	}

	return a.userServiceWithDB(db)
}

func (a *app) ImportService() importerPort.Service {
	return a.importService
}

func (a *app) Config() config.Config {
	return a.cfg
}

func (a *app) DB() *gorm.DB {
	return a.db
}

func (a *app) setDB() error {
	db, err := mysql.NewMysqlConnection(mysql.DBConnOptions{
		Host:     a.cfg.DB.Host,
		Port:     a.cfg.DB.Port,
		Username: a.cfg.DB.Username,
		Password: a.cfg.DB.Password,
		Database: a.cfg.DB.Database,
	})
	if err != nil {
		return err
	}
	mysql.GormMigrations(db)
	mysql.SeedData(db, userDomain.HashPassword)
	a.db = db
	return nil
}

func NewApp(cfg config.Config) (AppContainer, error) {
	a := &app{
		cfg: cfg,
	}
	if err := a.setDB(); err != nil {
		return nil, err
	}

	assetRepo := storage.NewAssetRepo(a.db)
	a.assetService = asset.NewAssetService(assetRepo)

	coreLogger := logger.GetGlobalLogger().FromContext(context.Background())

	// The directory resolver is optional: without a configured host the
	// importer simply leaves assignees unresolved.
	if cfg.Directory.Host != "" {
		ttl := time.Duration(cfg.Directory.CacheTTLSec) * time.Second
		a.directory = directory.NewCachingResolver(directory.NewLDAPResolver(cfg.Directory), ttl)
		coreLogger.Info("Directory resolver initialized for %s", cfg.Directory.Host)
	} else {
		coreLogger.Warn("Directory resolver disabled: no host configured")
	}

	a.importService = importer.NewService(
		assetRepo,
		storage.NewImportWriter(a.db),
		storage.NewSourceLinkRepo(a.db),
		storage.NewRuleRepo(a.db),
		storage.NewSyncRunRepo(a.db),
		storage.NewActivityRepo(a.db),
		a.directory,
		location.NewMatcher(storage.NewLocationRepo(a.db)),
		cfg.Importer.BatchSize,
		cfg.Importer.TagRetryLimit,
		time.Duration(cfg.Importer.SessionRetentionSec)*time.Second,
	)
	coreLogger.Info("Import service initialized")

	return a, nil
}

func NewMustApp(cfg config.Config) AppContainer {
	app, err := NewApp(cfg)
	if err != nil {
		panic(err)
	}
	return app
}
