package http

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt2 "github.com/golang-jwt/jwt/v5"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/jwt"
)

func userClaims(ctx *fiber.Ctx) *jwt.UserClaims {
	if u := ctx.Locals("user"); u != nil {
		userClaims, ok := u.(*jwt2.Token).Claims.(*jwt.UserClaims)
		if ok {
			return userClaims
		}
	}

	return nil
}

type ServiceGetter[T any] func(context.Context) T

// actorName returns the username of the authenticated caller, for audit
// attribution. Unauthenticated paths get "system".
func actorName(ctx *fiber.Ctx) string {
	if claims := userClaims(ctx); claims != nil && claims.Username != "" {
		return claims.Username
	}
	return "system"
}

// extractSorts processes the sort parameters from fiber.Ctx queries
// If no sort parameters are provided, it returns a default sort by created_at desc
func extractSorts(queries map[string]string) []domain.SortOption {
	var sorts []domain.SortOption
	hasSortParams := false

	for key, value := range queries {
		if !strings.HasPrefix(key, "sort[") || !strings.Contains(key, "][") {
			continue
		}

		hasSortParams = true

		indexEnd := strings.Index(key, "][")
		if indexEnd <= 5 {
			continue
		}

		indexStr := key[5:indexEnd]
		fieldType := key[indexEnd+2 : len(key)-1]

		index, err := strconv.Atoi(indexStr)
		if err != nil || index < 0 {
			continue
		}

		for len(sorts) <= index {
			sorts = append(sorts, domain.SortOption{
				Field: "created_at",
				Order: "desc",
			})
		}

		if fieldType == "field" {
			sorts[index].Field = value
		} else if fieldType == "order" && (value == "asc" || value == "desc") {
			sorts[index].Order = value
		}
	}

	// Set default sort if no sort parameters were provided
	if !hasSortParams {
		sorts = append(sorts, domain.SortOption{
			Field: "created_at",
			Order: "desc",
		})
	}

	return sorts
}

// extractAssetFilters processes the asset filter parameters from fiber.Ctx queries
func extractAssetFilters(queries map[string]string) domain.AssetFilters {
	filter := domain.AssetFilters{}

	for key, value := range queries {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") || len(key) <= 8 {
			continue
		}

		fieldName := key[7 : len(key)-1]

		switch fieldName {
		case "asset_tag":
			filter.AssetTag = value
		case "serial_number":
			filter.SerialNumber = value
		case "status":
			filter.Status = value
		case "type":
			filter.Type = value
		case "make":
			filter.Make = value
		case "model":
			filter.Model = value
		case "assigned_to":
			filter.AssignedTo = value
		}
	}

	return filter
}

func extractPagination(c *fiber.Ctx) (limit, page int) {
	limit = c.QueryInt("limit", 50)
	page = c.QueryInt("page", 1)
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return limit, page
}
