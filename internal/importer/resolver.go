package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

const defaultTagRetryLimit = 5

// Resolution is the decision the resolver reached for one draft.
type Resolution struct {
	Operation   string
	AssetID     uuid.UUID
	Status      assetDomain.AssetStatus
	Reactivated bool
	Skipped     bool
	SkipReason  string
}

// Resolver guarantees a draft lands under a unique serial number and asset
// tag, deciding between create and update without ever violating either
// uniqueness invariant.
type Resolver struct {
	assets        assetPort.Repo
	writer        importerPort.ImportWriter
	tagRetryLimit int
}

func NewResolver(assets assetPort.Repo, writer importerPort.ImportWriter, tagRetryLimit int) *Resolver {
	if tagRetryLimit <= 0 {
		tagRetryLimit = defaultTagRetryLimit
	}
	return &Resolver{
		assets:        assets,
		writer:        writer,
		tagRetryLimit: tagRetryLimit,
	}
}

// Resolve persists one draft under the given conflict policy. Serial number
// is the higher-priority identity: it is hardware-stable while tags are
// re-assignable labels.
func (r *Resolver) Resolve(ctx context.Context, draft *domain.AssetDraft, policy domain.ConflictPolicy, reactivateAllow map[string]bool, actor string) (*Resolution, error) {
	existing, err := r.assets.GetBySerialNumber(ctx, draft.SerialNumber)
	if err != nil {
		return nil, err
	}
	matchedBySerial := existing != nil

	if existing == nil {
		existing, err = r.assets.GetByAssetTag(ctx, draft.AssetTag)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		if policy == domain.PolicySkip {
			field, value := "serial_number", draft.SerialNumber
			if !matchedBySerial {
				field, value = "asset_tag", draft.AssetTag
			}
			// The matched asset id still travels with the skip so snapshot
			// presence can be recorded for rows that were not written.
			return &Resolution{
				Skipped:    true,
				AssetID:    existing.ID,
				Status:     existing.Status,
				SkipReason: fmt.Sprintf("existing asset %s matches %s %q", existing.AssetTag, field, value),
			}, nil
		}
		return r.overwrite(ctx, draft, existing, matchedBySerial, reactivateAllow, actor)
	}

	return r.create(ctx, draft, actor)
}

func (r *Resolver) overwrite(ctx context.Context, draft *domain.AssetDraft, existing *assetDomain.AssetDomain, matchedBySerial bool, reactivateAllow map[string]bool, actor string) (*Resolution, error) {
	if matchedBySerial {
		// A different asset may already hold the incoming tag. Rename it off
		// the tag first so the update never trips the unique constraint, and
		// its identity survives under a recognizably superseded tag.
		if draft.AssetTag != "" && draft.AssetTag != existing.AssetTag {
			other, err := r.assets.GetByAssetTag(ctx, draft.AssetTag)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != existing.ID {
				renamed := supersededTag(other.AssetTag)
				logger.WarnContext(ctx, "Resolver: tag %s held by asset %s, renaming it to %s before reassignment",
					draft.AssetTag, other.ID.String(), renamed)
				if err := r.assets.RenameTag(ctx, other.ID, renamed); err != nil {
					return nil, err
				}
			}
		}
	} else if draft.SerialNumber != existing.SerialNumber {
		// Matched by tag with a serial the lookup did not find. If another
		// asset acquired that serial meanwhile, serial identity wins: the
		// update is redirected to the serial holder and the tag-matched
		// asset is renamed off the contested tag.
		holder, err := r.assets.GetBySerialNumber(ctx, draft.SerialNumber)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.ID != existing.ID {
			renamed := supersededTag(existing.AssetTag)
			logger.WarnContext(ctx, "Resolver: serial %s acquired by asset %s, renaming tag-matched asset %s to %s",
				draft.SerialNumber, holder.ID.String(), existing.ID.String(), renamed)
			if err := r.assets.RenameTag(ctx, existing.ID, renamed); err != nil {
				return nil, err
			}
			existing = holder
		}
	}

	priorStatus := existing.Status
	updated := draft.ToAsset()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	if updated.AssetTag == "" {
		updated.AssetTag = existing.AssetTag
	}

	reactivated := false
	if priorStatus == assetDomain.StatusRetired && updated.Status != assetDomain.StatusRetired {
		// Leaving retired requires explicit operator approval: only serials on
		// the allow-list reactivate, everything else stays retired.
		if reactivateAllow[updated.SerialNumber] {
			reactivated = true
		} else {
			logger.InfoContext(ctx, "Resolver: reactivation of %s not approved, keeping retired", updated.SerialNumber)
			updated.Status = assetDomain.StatusRetired
		}
	}

	action := domain.ActionUpdate
	if reactivated {
		action = domain.ActionReactivate
	}
	activity := domain.Activity{
		Actor:   actor,
		AssetID: updated.ID.String(),
		Action:  action,
		Details: changeDetails(existing, &updated),
	}

	if err := r.writer.SaveImported(ctx, &updated, draft.CustomFields, activity); err != nil {
		return nil, err
	}

	return &Resolution{
		Operation:   domain.OperationUpdate,
		AssetID:     updated.ID,
		Status:      updated.Status,
		Reactivated: reactivated,
	}, nil
}

func (r *Resolver) create(ctx context.Context, draft *domain.AssetDraft, actor string) (*Resolution, error) {
	asset := draft.ToAsset()
	asset.ID = uuid.New()
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = asset.CreatedAt

	// Rows in the same batch race for generated tags; each row re-validates
	// immediately before its own create, with bounded regeneration.
	for attempt := 0; ; attempt++ {
		if attempt >= r.tagRetryLimit {
			return nil, fmt.Errorf("could not allocate a unique asset tag for serial %s after %d attempts", asset.SerialNumber, r.tagRetryLimit)
		}

		taken, err := r.assets.TagExists(ctx, asset.AssetTag, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			asset.AssetTag = GenerateAssetTag(asset.Type, draft.RowIndex)
			continue
		}

		activity := domain.Activity{
			Actor:   actor,
			AssetID: asset.ID.String(),
			Action:  domain.ActionCreate,
			Details: changeDetails(nil, &asset),
		}
		err = r.writer.SaveImported(ctx, &asset, draft.CustomFields, activity)
		if err == nil {
			return &Resolution{
				Operation: domain.OperationCreate,
				AssetID:   asset.ID,
				Status:    asset.Status,
			}, nil
		}
		if isDuplicateTag(err) {
			logger.DebugContext(ctx, "Resolver: tag %s collided at insert, regenerating", asset.AssetTag)
			asset.AssetTag = GenerateAssetTag(asset.Type, draft.RowIndex)
			continue
		}
		return nil, err
	}
}

func isDuplicateTag(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// changeDetails renders a structured audit description of what changed.
func changeDetails(before, after *assetDomain.AssetDomain) string {
	payload := map[string]string{
		"asset_tag":     after.AssetTag,
		"serial_number": after.SerialNumber,
		"status":        string(after.Status),
		"asset_type":    after.Type,
	}
	if before != nil {
		if before.Status != after.Status {
			payload["previous_status"] = string(before.Status)
		}
		if before.AssetTag != after.AssetTag {
			payload["previous_asset_tag"] = before.AssetTag
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}
