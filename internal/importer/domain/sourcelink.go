package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceLink ties one asset to one external source's identifier for it.
// At most one link exists per (source system, external id); the external id
// must equal the linked asset's current serial number or the link is orphaned.
type SourceLink struct {
	ID           uuid.UUID
	AssetID      uuid.UUID
	SourceSystem SourceSystem
	ExternalID   string
	LastSeenAt   time.Time
	IsPresent    bool
}
