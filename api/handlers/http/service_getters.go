package http

import (
	"context"

	"gitlab.apk-group.net/itops/backend/asset-inventory/api/service"
	"gitlab.apk-group.net/itops/backend/asset-inventory/app"
	"gitlab.apk-group.net/itops/backend/asset-inventory/config"
)

// user service transient instance handler
func userServiceGetter(appContainer app.AppContainer, cfg config.ServerConfig) ServiceGetter[*service.UserService] {
	return func(ctx context.Context) *service.UserService {
		return service.NewUserService(appContainer.UserService(ctx), cfg.Secret, cfg.AuthExpMinute, cfg.AuthRefreshMinute)
	}
}

// asset service transient instance handler
func assetServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.AssetService] {
	return func(ctx context.Context) *service.AssetService {
		return service.NewAssetService(appContainer.AssetService(ctx))
	}
}

// import service transient instance handler
func importServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.ImportService] {
	return func(ctx context.Context) *service.ImportService {
		return service.NewImportService(appContainer.ImportService())
	}
}
