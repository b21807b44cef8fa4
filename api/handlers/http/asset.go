package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/itops/backend/asset-inventory/api/service"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// CreateAsset handles creation of a new asset via HTTP
func CreateAsset(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		logger.InfoContext(ctx, "Asset creation request received")

		var req service.AssetRequest
		if err := c.BodyParser(&req); err != nil {
			logger.WarnContext(ctx, "Failed to parse asset creation request body: %v", err)
			return fiber.ErrBadRequest
		}

		id, err := srv.CreateAsset(ctx, &req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAssetStatus) {
				logger.WarnContext(ctx, "Asset creation failed: invalid status %q", req.Status)
				return fiber.NewError(fiber.StatusBadRequest, "invalid asset status")
			}
			if errors.Is(err, service.ErrAssetTagExists) {
				logger.WarnContext(ctx, "Asset creation failed: asset tag %s already exists", req.AssetTag)
				return fiber.NewError(fiber.StatusConflict, "asset tag already exists")
			}
			if errors.Is(err, service.ErrSerialNumberExists) {
				logger.WarnContext(ctx, "Asset creation failed: serial number %s already exists", req.SerialNumber)
				return fiber.NewError(fiber.StatusConflict, "serial number already exists")
			}
			logger.ErrorContext(ctx, "Asset creation failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		logger.InfoContext(ctx, "Asset created successfully with ID: %s", id)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// GetAssetByID returns one asset by its id
func GetAssetByID(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		id := c.Params("id")
		asset, err := srv.GetAsset(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAssetUUID) {
				return fiber.ErrBadRequest
			}
			if errors.Is(err, service.ErrAssetNotFound) {
				return fiber.ErrNotFound
			}
			logger.ErrorContext(ctx, "Asset lookup failed for ID %s: %v", id, err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(asset)
	}
}

// GetAssets lists assets with filters, sorting and pagination
func GetAssets(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		limit, page := extractPagination(c)
		queries := c.Queries()
		sorts := extractSorts(queries)

		req := service.AssetListRequest{
			Filter: extractAssetFilters(queries),
			Limit:  limit,
			Page:   page,
		}
		if len(sorts) > 0 {
			req.SortField = sorts[0].Field
			req.SortOrder = sorts[0].Order
		}

		response, err := srv.ListAssets(ctx, &req)
		if err != nil {
			logger.ErrorContext(ctx, "Asset listing failed: %v", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(response)
	}
}

// UpdateAsset handles updating an existing asset via HTTP
func UpdateAsset(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		id := c.Params("id")
		if id == "" {
			logger.WarnContext(ctx, "Asset update request missing asset ID")
			return fiber.ErrBadRequest
		}

		var req service.AssetRequest
		if err := c.BodyParser(&req); err != nil {
			logger.WarnContext(ctx, "Failed to parse asset update request body for ID %s: %v", id, err)
			return fiber.ErrBadRequest
		}

		if err := srv.UpdateAsset(ctx, id, &req); err != nil {
			if errors.Is(err, service.ErrInvalidAssetUUID) {
				return fiber.ErrBadRequest
			}
			if errors.Is(err, service.ErrAssetNotFound) {
				return fiber.ErrNotFound
			}
			logger.ErrorContext(ctx, "Asset update failed for ID %s: %v", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "asset updated"})
	}
}

// DeleteAsset removes one asset by its id
func DeleteAsset(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		id := c.Params("id")
		if err := srv.DeleteAsset(ctx, id); err != nil {
			if errors.Is(err, service.ErrInvalidAssetUUID) {
				return fiber.ErrBadRequest
			}
			if errors.Is(err, service.ErrAssetNotFound) {
				return fiber.ErrNotFound
			}
			logger.ErrorContext(ctx, "Asset deletion failed for ID %s: %v", id, err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"message": "asset deleted"})
	}
}

// ExportAssets streams the filtered asset set as a CSV download
func ExportAssets(svcGetter ServiceGetter[*service.AssetService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		filter := extractAssetFilters(c.Queries())
		data, err := srv.ExportCSV(ctx, filter)
		if err != nil {
			logger.ErrorContext(ctx, "Asset CSV export failed: %v", err)
			return fiber.ErrInternalServerError
		}

		filename := fmt.Sprintf("assets-%s.csv", time.Now().Format("20060102-150405"))
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(data)
	}
}
