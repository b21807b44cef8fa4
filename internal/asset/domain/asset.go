package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAssetTagAlreadyExists     = errors.New("asset tag already exists")
	ErrSerialNumberAlreadyExists = errors.New("serial number already exists")
)

type AssetUUID = uuid.UUID

// AssetStatus is the fixed lifecycle enumeration for an asset.
type AssetStatus string

const (
	StatusAvailable   AssetStatus = "available"
	StatusAssigned    AssetStatus = "assigned"
	StatusSpare       AssetStatus = "spare"
	StatusMaintenance AssetStatus = "maintenance"
	StatusRetired     AssetStatus = "retired"
	StatusDisposed    AssetStatus = "disposed"
)

var validStatuses = map[AssetStatus]bool{
	StatusAvailable:   true,
	StatusAssigned:    true,
	StatusSpare:       true,
	StatusMaintenance: true,
	StatusRetired:     true,
	StatusDisposed:    true,
}

func (s AssetStatus) Valid() bool {
	return validStatuses[s]
}

// Asset types recognized by the inventory.
const (
	TypeLaptop    = "LAPTOP"
	TypeDesktop   = "DESKTOP"
	TypePhone     = "PHONE"
	TypeTablet    = "TABLET"
	TypeMonitor   = "MONITOR"
	TypeAccessory = "ACCESSORY"
)

// ConditionGood is the default physical condition for imported assets.
const ConditionGood = "good"

type AssetDomain struct {
	ID                 AssetUUID         `json:"id"`
	AssetTag           string            `json:"asset_tag"`
	SerialNumber       string            `json:"serial_number"`
	Status             AssetStatus       `json:"status"`
	Condition          string            `json:"condition"`
	Type               string            `json:"asset_type"`
	Make               string            `json:"make"`
	Model              string            `json:"model"`
	AssignedTo         string            `json:"assigned_to"`
	AssignedUserID     *uuid.UUID        `json:"assigned_user_id"`
	LocationID         *uuid.UUID        `json:"location_id"`
	WorkloadCategoryID *uuid.UUID        `json:"workload_category_id"`
	Specifications     map[string]string `json:"specifications"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type SortOption struct {
	Field string
	Order string
}

type AssetFilters struct {
	AssetTag     string
	SerialNumber string
	Status       string
	Type         string
	Make         string
	Model        string
	AssignedTo   string
}

func AssetUUIDFromString(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// SpecificationsJSON serializes the specification map for storage as an opaque blob.
func (a *AssetDomain) SpecificationsJSON() string {
	if len(a.Specifications) == 0 {
		return ""
	}
	b, err := json.Marshal(a.Specifications)
	if err != nil {
		return ""
	}
	return string(b)
}

// SpecificationsFromJSON restores a specification map from its stored blob.
func SpecificationsFromJSON(blob string) map[string]string {
	out := map[string]string{}
	if blob == "" {
		return out
	}
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return map[string]string{}
	}
	return out
}
