package http

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gitlab.apk-group.net/itops/backend/asset-inventory/app"
	"gitlab.apk-group.net/itops/backend/asset-inventory/config"
)

func Run(appContainer app.AppContainer, cfg config.ServerConfig) error {
	router := fiber.New(fiber.Config{
		AppName:   "APK Asset Inventory",
		BodyLimit: 32 * 1024 * 1024,
	})
	router.Use(helmet.New())
	router.Use(TraceMiddleware())
	router.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} TraceID: ${locals:traceID}\n",
		Output: os.Stdout,
	}))

	router.Get("/", func(c *fiber.Ctx) error {
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		return c.SendString("Secure HTTPS server")
	})

	api := router.Group("/api/v1", setUserContext)

	registerAuthAPI(appContainer, cfg, api)

	secured := api.Group("", newAuthMiddleware([]byte(cfg.Secret)))
	registerAssetAPI(appContainer, secured)
	registerImportAPI(appContainer, secured.Group("/imports"))

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
		PreferServerCipherSuites: true,
	}

	router.Server().TLSConfig = tlsConfig
	if !cfg.SslEnabled {
		return router.Listen(fmt.Sprintf(":%d", cfg.HttpPort))
	}
	return router.ListenTLS(fmt.Sprintf(":%d", cfg.HttpPort), cfg.Cert, cfg.Key)
}

func registerAuthAPI(appContainer app.AppContainer, cfg config.ServerConfig, router fiber.Router) {
	userSvcGetter := userServiceGetter(appContainer, cfg)
	router.Post("/sign-up", setTransaction(appContainer.DB()), SignUp(userSvcGetter))
	router.Post("/sign-in", setTransaction(appContainer.DB()), SignIn(userSvcGetter, cfg))
	router.Post("/sign-out", setTransaction(appContainer.DB()), SignOut(userSvcGetter))
}

func registerAssetAPI(appContainer app.AppContainer, router fiber.Router) {
	assetSvcGetter := assetServiceGetter(appContainer)

	assets := router.Group("/assets")

	assets.Get("/", GetAssets(assetSvcGetter))
	assets.Get("/:id", GetAssetByID(assetSvcGetter))
	assets.Post("/", CreateAsset(assetSvcGetter))
	assets.Put("/:id", UpdateAsset(assetSvcGetter))
	assets.Delete("/:id", DeleteAsset(assetSvcGetter))

	// Export endpoints
	assets.Post("/export/csv", ExportAssets(assetSvcGetter))
}

func registerImportAPI(appContainer app.AppContainer, router fiber.Router) {
	importSvcGetter := importServiceGetter(appContainer)

	router.Post("/run", RunImport(importSvcGetter))
	router.Post("/start", StartImport(importSvcGetter))
	router.Post("/upload", UploadImport(importSvcGetter))
	router.Post("/preview", PreviewImport(importSvcGetter))
	router.Get("/progress/:session_id", ImportProgress(importSvcGetter))
	router.Get("/runs", ListImportRuns(importSvcGetter))
}
