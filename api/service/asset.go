package service

import (
	"context"

	"github.com/google/uuid"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
)

var (
	ErrAssetNotFound      = asset.ErrAssetNotFound
	ErrInvalidAssetUUID   = asset.ErrInvalidAssetUUID
	ErrInvalidAssetStatus = asset.ErrInvalidAssetStatus
	ErrAssetCreateFailed  = asset.ErrAssetCreateFailed
	ErrAssetTagExists     = asset.ErrAssetTagAlreadyExists
	ErrSerialNumberExists = asset.ErrSerialNumberAlreadyExists
)

type AssetRequest struct {
	AssetTag           string            `json:"asset_tag"`
	SerialNumber       string            `json:"serial_number"`
	Status             string            `json:"status"`
	Condition          string            `json:"condition"`
	Type               string            `json:"asset_type"`
	Make               string            `json:"make"`
	Model              string            `json:"model"`
	AssignedTo         string            `json:"assigned_to"`
	AssignedUserID     string            `json:"assigned_user_id"`
	LocationID         string            `json:"location_id"`
	WorkloadCategoryID string            `json:"workload_category_id"`
	Specifications     map[string]string `json:"specifications"`
}

type AssetListRequest struct {
	Filter    domain.AssetFilters `json:"filter"`
	Limit     int                 `json:"limit"`
	Page      int                 `json:"page"`
	SortField string              `json:"sort_field"`
	SortOrder string              `json:"sort_order"`
}

type AssetListResponse struct {
	Assets []domain.AssetDomain `json:"assets"`
	Total  int                  `json:"total"`
}

type AssetService struct {
	service assetPort.Service
}

func NewAssetService(srv assetPort.Service) *AssetService {
	return &AssetService{
		service: srv,
	}
}

func (s *AssetService) CreateAsset(ctx context.Context, req *AssetRequest) (string, error) {
	assetDomain, err := requestToDomain(req)
	if err != nil {
		return "", err
	}
	uid, err := s.service.CreateAsset(ctx, *assetDomain)
	if err != nil {
		return "", err
	}
	return uid.String(), nil
}

func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.AssetDomain, error) {
	uid, err := domain.AssetUUIDFromString(id)
	if err != nil {
		return nil, ErrInvalidAssetUUID
	}
	return s.service.GetByID(ctx, uid)
}

func (s *AssetService) ListAssets(ctx context.Context, req *AssetListRequest) (*AssetListResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := 0
	if req.Page > 1 {
		offset = (req.Page - 1) * limit
	}

	var sorts []domain.SortOption
	if req.SortField != "" {
		sorts = append(sorts, domain.SortOption{Field: req.SortField, Order: req.SortOrder})
	}

	assets, total, err := s.service.Get(ctx, req.Filter, limit, offset, sorts...)
	if err != nil {
		return nil, err
	}
	return &AssetListResponse{
		Assets: assets,
		Total:  total,
	}, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, id string, req *AssetRequest) error {
	uid, err := domain.AssetUUIDFromString(id)
	if err != nil {
		return ErrInvalidAssetUUID
	}
	assetDomain, err := requestToDomain(req)
	if err != nil {
		return err
	}
	assetDomain.ID = uid
	return s.service.UpdateAsset(ctx, *assetDomain)
}

func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	return s.service.DeleteAsset(ctx, id)
}

// ExportCSV renders the filtered asset set as a CSV document.
func (s *AssetService) ExportCSV(ctx context.Context, filter domain.AssetFilters) ([]byte, error) {
	assets, _, err := s.service.Get(ctx, filter, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.service.GenerateCSV(ctx, assets)
}

func requestToDomain(req *AssetRequest) (*domain.AssetDomain, error) {
	out := &domain.AssetDomain{
		AssetTag:       req.AssetTag,
		SerialNumber:   req.SerialNumber,
		Status:         domain.AssetStatus(req.Status),
		Condition:      req.Condition,
		Type:           req.Type,
		Make:           req.Make,
		Model:          req.Model,
		AssignedTo:     req.AssignedTo,
		Specifications: req.Specifications,
	}
	if req.AssignedUserID != "" {
		id, err := uuid.Parse(req.AssignedUserID)
		if err != nil {
			return nil, ErrInvalidAssetUUID
		}
		out.AssignedUserID = &id
	}
	if req.LocationID != "" {
		id, err := uuid.Parse(req.LocationID)
		if err != nil {
			return nil, ErrInvalidAssetUUID
		}
		out.LocationID = &id
	}
	if req.WorkloadCategoryID != "" {
		id, err := uuid.Parse(req.WorkloadCategoryID)
		if err != nil {
			return nil, ErrInvalidAssetUUID
		}
		out.WorkloadCategoryID = &id
	}
	return out, nil
}
