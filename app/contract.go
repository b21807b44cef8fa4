package app

import (
	"context"

	"gorm.io/gorm"

	"gitlab.apk-group.net/itops/backend/asset-inventory/config"
	AssetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	ImporterPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	UserPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/user/port"
)

type AppContainer interface {
	AssetService(ctx context.Context) AssetPort.Service
	UserService(ctx context.Context) UserPort.Service
	// ImportService is a singleton: it owns the progress session store, which
	// must survive across requests.
	ImportService() ImporterPort.Service
	Config() config.Config
	DB() *gorm.DB
}
