package importer

import (
	"strings"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

// Transformer maps raw source rows to asset drafts. Adapter output is applied
// first; caller-supplied column mappings only fill fields the adapter left
// unset.
type Transformer struct {
	adapters map[domain.SourceSystem]SourceAdapter
}

func NewTransformer() *Transformer {
	return &Transformer{adapters: builtinAdapters()}
}

func (t *Transformer) Adapter(source domain.SourceSystem) (SourceAdapter, error) {
	a, ok := t.adapters[source]
	if !ok {
		return nil, domain.ErrUnknownSourceSystem
	}
	return a, nil
}

// Transform produces a draft for one row. A missing required column or an
// underivable serial number is a validation failure, surfaced to the caller
// as a skip rather than an error.
func (t *Transformer) Transform(source domain.SourceSystem, rowIndex int, row map[string]string, mappings []domain.ColumnMapping) (*domain.AssetDraft, error) {
	adapter, err := t.Adapter(source)
	if err != nil {
		return nil, err
	}

	draft := domain.NewAssetDraft(rowIndex, row)
	adapter.Apply(row, draft)

	if err := t.applyMappings(draft, row, mappings); err != nil {
		return nil, err
	}

	normalizeDateFields(draft.Specifications)

	// Phones without a serial fall back to the IMEI.
	if draft.SerialNumber == "" && draft.Type == assetDomain.TypePhone {
		draft.SerialNumber = draft.Specifications["imei"]
	}
	if draft.SerialNumber == "" {
		return nil, &domain.ValidationError{Reason: "no derivable serial number"}
	}

	t.applyDefaults(draft)
	return draft, nil
}

// applyMappings classifies each mapped column into a direct field, a
// custom-field reference or the catch-all specification map. Mapped values
// never overwrite adapter-derived values.
func (t *Transformer) applyMappings(draft *domain.AssetDraft, row map[string]string, mappings []domain.ColumnMapping) error {
	for _, m := range mappings {
		value := strings.TrimSpace(row[m.SourceColumn])
		if value == "" {
			if m.IsRequired {
				return &domain.MissingRequiredFieldError{Column: m.SourceColumn}
			}
			continue
		}

		if id, found := strings.CutPrefix(m.TargetField, domain.CustomFieldPrefix); found {
			if _, exists := draft.CustomFields[id]; !exists {
				draft.CustomFields[id] = value
			}
			continue
		}

		if t.setDirectField(draft, m.TargetField, value) {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(m.TargetField))
		if _, exists := draft.Specifications[key]; !exists {
			draft.Specifications[key] = value
		}
	}
	return nil
}

func (t *Transformer) setDirectField(draft *domain.AssetDraft, target, value string) bool {
	switch strings.ToLower(target) {
	case "serial_number":
		if draft.SerialNumber == "" {
			draft.SerialNumber = value
		}
	case "asset_tag":
		if draft.AssetTag == "" {
			draft.AssetTag = value
		}
	case "asset_type", "type":
		if draft.Type == "" {
			draft.Type = strings.ToUpper(value)
		}
	case "status":
		if draft.Status == "" {
			draft.Status = assetDomain.AssetStatus(strings.ToLower(value))
		}
	case "condition":
		if draft.Condition == "" {
			draft.Condition = strings.ToLower(value)
		}
	case "make":
		if draft.Make == "" {
			draft.Make = value
		}
	case "model":
		if draft.Model == "" {
			draft.Model = value
		}
	case "assigned_to":
		if draft.AssignedTo == "" {
			draft.AssignedTo = value
		}
	case "location":
		if draft.LocationLabel == "" {
			draft.LocationLabel = value
		}
	default:
		return false
	}
	return true
}

func (t *Transformer) applyDefaults(draft *domain.AssetDraft) {
	if draft.Condition == "" {
		draft.Condition = assetDomain.ConditionGood
	}
	if draft.Type == "" {
		draft.Type = assetDomain.TypeAccessory
	}
	// Assignment presence decides the status unless the source set one.
	if draft.Status == "" {
		if draft.AssignedTo != "" {
			draft.Status = assetDomain.StatusAssigned
		} else {
			draft.Status = assetDomain.StatusAvailable
		}
	}
}

// EnsureTag generates an asset tag for drafts that arrived without one. It
// runs after directory resolution so phone tags can embed the resolved
// assignee's name.
func (t *Transformer) EnsureTag(draft *domain.AssetDraft) {
	if draft.AssetTag != "" {
		return
	}
	if draft.Type == assetDomain.TypePhone {
		assignee := draft.AssignedDisplayName
		if assignee == "" {
			assignee = draft.AssignedTo
		}
		draft.AssetTag = GeneratePhoneTag(assignee, draft.RowIndex)
		return
	}
	draft.AssetTag = GenerateAssetTag(draft.Type, draft.RowIndex)
}
