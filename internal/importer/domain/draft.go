package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
)

// CustomFieldPrefix marks a column-mapping target as a custom-field reference.
// The remainder of the target is the custom field id.
const CustomFieldPrefix = "cf:"

// ColumnMapping routes one source column into a draft field. Targets are
// either a direct asset field name, a "cf:<id>" custom-field reference, or
// anything else, which lands in the specification map.
type ColumnMapping struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
	IsRequired   bool   `json:"is_required"`
}

// AssetDraft is the transient canonical record produced from one input row.
// It is consumed once by the resolver and then discarded.
type AssetDraft struct {
	RowIndex            int
	SerialNumber        string
	AssetTag            string
	Type                string
	Status              assetDomain.AssetStatus
	Condition           string
	Make                string
	Model               string
	AssignedTo          string
	AssignedDisplayName string
	AssignedUserID      *uuid.UUID
	LocationID          *uuid.UUID
	LocationLabel       string
	WorkloadCategoryID  *uuid.UUID
	Specifications      map[string]string
	CustomFields        map[string]string
	OriginalRow         map[string]string
}

func NewAssetDraft(rowIndex int, row map[string]string) *AssetDraft {
	return &AssetDraft{
		RowIndex:       rowIndex,
		Specifications: map[string]string{},
		CustomFields:   map[string]string{},
		OriginalRow:    row,
	}
}

// Field resolves a classification-rule source field against the draft.
// Dotted paths traverse into the specification map. Absent fields return
// ok=false and never match a rule.
func (d *AssetDraft) Field(name string) (string, bool) {
	if rest, found := strings.CutPrefix(name, "specifications."); found {
		v, ok := d.Specifications[rest]
		return v, ok && v != ""
	}

	var v string
	switch strings.ToLower(name) {
	case "serial_number":
		v = d.SerialNumber
	case "asset_tag":
		v = d.AssetTag
	case "asset_type", "type":
		v = d.Type
	case "status":
		v = string(d.Status)
	case "condition":
		v = d.Condition
	case "make":
		v = d.Make
	case "model":
		v = d.Model
	case "assigned_to":
		v = d.AssignedTo
	default:
		return "", false
	}
	return v, v != ""
}

// ToAsset materializes the draft as an asset domain record.
func (d *AssetDraft) ToAsset() assetDomain.AssetDomain {
	specs := make(map[string]string, len(d.Specifications))
	for k, v := range d.Specifications {
		specs[k] = v
	}
	return assetDomain.AssetDomain{
		AssetTag:           d.AssetTag,
		SerialNumber:       d.SerialNumber,
		Status:             d.Status,
		Condition:          d.Condition,
		Type:               d.Type,
		Make:               d.Make,
		Model:              d.Model,
		AssignedTo:         d.AssignedTo,
		AssignedUserID:     d.AssignedUserID,
		LocationID:         d.LocationID,
		WorkloadCategoryID: d.WorkloadCategoryID,
		Specifications:     specs,
	}
}

// MissingRequiredFieldError reports a required mapped column that was empty
// or absent in the source row. Rows failing this way are skipped, not failed.
type MissingRequiredFieldError struct {
	Column string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("required column %q is missing or empty", e.Column)
}

// ValidationError marks a row that cannot become a usable draft (e.g. no
// derivable serial number). It is reported as a skip.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
