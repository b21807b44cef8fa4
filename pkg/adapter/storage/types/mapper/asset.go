package mapper

import (
	Domain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/adapter/storage/types"
)

func AssetDomain2Storage(asset Domain.AssetDomain) *types.Asset {
	assetStorage := &types.Asset{
		ID:           asset.ID.String(),
		AssetTag:     asset.AssetTag,
		SerialNumber: asset.SerialNumber,
		Status:       string(asset.Status),
		Type:         asset.Type,
		CreatedAt:    asset.CreatedAt,
	}

	// Handle non-zero values for pointers
	if asset.Condition != "" {
		assetStorage.Condition = &asset.Condition
	}
	if asset.Make != "" {
		assetStorage.Make = &asset.Make
	}
	if asset.Model != "" {
		assetStorage.Model = &asset.Model
	}
	if asset.AssignedTo != "" {
		assetStorage.AssignedTo = &asset.AssignedTo
	}
	if asset.AssignedUserID != nil {
		id := asset.AssignedUserID.String()
		assetStorage.AssignedUserID = &id
	}
	if asset.LocationID != nil {
		id := asset.LocationID.String()
		assetStorage.LocationID = &id
	}
	if asset.WorkloadCategoryID != nil {
		id := asset.WorkloadCategoryID.String()
		assetStorage.WorkloadCategoryID = &id
	}
	if blob := asset.SpecificationsJSON(); blob != "" {
		assetStorage.Specifications = &blob
	}
	if !asset.UpdatedAt.IsZero() {
		assetStorage.UpdatedAt = &asset.UpdatedAt
	}

	return assetStorage
}

func AssetStorage2Domain(asset types.Asset) (*Domain.AssetDomain, error) {
	uid, err := Domain.AssetUUIDFromString(asset.ID)
	if err != nil {
		return nil, err
	}

	out := &Domain.AssetDomain{
		ID:           uid,
		AssetTag:     asset.AssetTag,
		SerialNumber: asset.SerialNumber,
		Status:       Domain.AssetStatus(asset.Status),
		Type:         asset.Type,
		CreatedAt:    asset.CreatedAt,
	}
	if asset.Condition != nil {
		out.Condition = *asset.Condition
	}
	if asset.Make != nil {
		out.Make = *asset.Make
	}
	if asset.Model != nil {
		out.Model = *asset.Model
	}
	if asset.AssignedTo != nil {
		out.AssignedTo = *asset.AssignedTo
	}
	if asset.AssignedUserID != nil {
		if id, err := Domain.AssetUUIDFromString(*asset.AssignedUserID); err == nil {
			out.AssignedUserID = &id
		}
	}
	if asset.LocationID != nil {
		if id, err := Domain.AssetUUIDFromString(*asset.LocationID); err == nil {
			out.LocationID = &id
		}
	}
	if asset.WorkloadCategoryID != nil {
		if id, err := Domain.AssetUUIDFromString(*asset.WorkloadCategoryID); err == nil {
			out.WorkloadCategoryID = &id
		}
	}
	if asset.Specifications != nil {
		out.Specifications = Domain.SpecificationsFromJSON(*asset.Specifications)
	} else {
		out.Specifications = map[string]string{}
	}
	if asset.UpdatedAt != nil {
		out.UpdatedAt = *asset.UpdatedAt
	}

	return out, nil
}
