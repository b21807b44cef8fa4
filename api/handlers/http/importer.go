package http

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/itops/backend/asset-inventory/api/service"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// RunImport executes an import synchronously and returns the full result.
func RunImport(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		var req service.ImportRunRequest
		if err := c.BodyParser(&req); err != nil {
			logger.WarnContext(ctx, "Failed to parse import request body: %v", err)
			return fiber.ErrBadRequest
		}

		logger.InfoContext(ctx, "Import request received: source %s, %d rows", req.Source, len(req.Rows))

		result, err := srv.Run(ctx, actorName(c), &req)
		if err != nil {
			if errors.Is(err, service.ErrUnknownSource) || errors.Is(err, service.ErrInvalidAssetIDRef) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.ErrorContext(ctx, "Import run failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	}
}

// StartImport launches an import in the background and returns a session id
// the client can poll for progress.
func StartImport(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		var req service.ImportRunRequest
		if err := c.BodyParser(&req); err != nil {
			logger.WarnContext(ctx, "Failed to parse import start request body: %v", err)
			return fiber.ErrBadRequest
		}

		response, err := srv.Start(ctx, actorName(c), &req)
		if err != nil {
			if errors.Is(err, service.ErrUnknownSource) || errors.Is(err, service.ErrInvalidAssetIDRef) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.ErrorContext(ctx, "Import start failed: %v", err)
			return fiber.ErrInternalServerError
		}
		return c.Status(fiber.StatusAccepted).JSON(response)
	}
}

// UploadImport accepts an XLSX workbook upload, parses it into rows and
// launches a background import. Import parameters travel in the "options"
// multipart field as JSON.
func UploadImport(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			logger.WarnContext(ctx, "Import upload missing file part: %v", err)
			return fiber.NewError(fiber.StatusBadRequest, "file part is required")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return fiber.ErrBadRequest
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return fiber.ErrBadRequest
		}

		rows, err := service.ParseWorkbook(data)
		if err != nil {
			logger.WarnContext(ctx, "Import upload workbook rejected: %v", err)
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req service.ImportRunRequest
		if options := c.FormValue("options"); options != "" {
			if err := json.Unmarshal([]byte(options), &req); err != nil {
				logger.WarnContext(ctx, "Import upload options rejected: %v", err)
				return fiber.NewError(fiber.StatusBadRequest, "invalid options payload")
			}
		}
		if req.Source == "" {
			req.Source = c.FormValue("source")
		}
		req.Rows = rows

		logger.InfoContext(ctx, "Import upload received: %s, source %s, %d rows",
			fileHeader.Filename, req.Source, len(rows))

		response, err := srv.Start(ctx, actorName(c), &req)
		if err != nil {
			if errors.Is(err, service.ErrUnknownSource) || errors.Is(err, service.ErrInvalidAssetIDRef) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.ErrorContext(ctx, "Import upload start failed: %v", err)
			return fiber.ErrInternalServerError
		}
		return c.Status(fiber.StatusAccepted).JSON(response)
	}
}

// PreviewImport reports the retirements and reactivations a snapshot would
// cause, without writing anything.
func PreviewImport(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		var req service.PreviewRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		preview, err := srv.Preview(ctx, &req)
		if err != nil {
			if errors.Is(err, service.ErrUnknownSource) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.ErrorContext(ctx, "Import preview failed: %v", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(preview)
	}
}

// ImportProgress returns the live progress snapshot of an import session.
func ImportProgress(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		snapshot, err := srv.Progress(c.Params("session_id"))
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				return fiber.ErrNotFound
			}
			return fiber.ErrInternalServerError
		}
		return c.JSON(snapshot)
	}
}

// ListImportRuns returns the sync run history, newest first.
func ListImportRuns(svcGetter ServiceGetter[*service.ImportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		limit, page := extractPagination(c)
		offset := (page - 1) * limit

		response, err := srv.ListRuns(ctx, limit, offset)
		if err != nil {
			logger.ErrorContext(ctx, "Sync run listing failed: %v", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(response)
	}
}
