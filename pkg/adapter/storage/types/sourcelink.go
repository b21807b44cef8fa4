package types

import "time"

// ExternalSourceLink ties an asset to its identifier in one external source.
// One row per (source system, external id).
type ExternalSourceLink struct {
	ID           string    `gorm:"column:id;size:50;primaryKey"`
	AssetID      string    `gorm:"column:asset_id;size:50;not null;index"`
	SourceSystem string    `gorm:"column:source_system;size:50;not null;uniqueIndex:idx_source_external"`
	ExternalID   string    `gorm:"column:external_id;size:100;not null;uniqueIndex:idx_source_external"`
	LastSeenAt   time.Time `gorm:"column:last_seen_at;type:datetime;not null"`
	IsPresent    bool      `gorm:"column:is_present;type:boolean;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`

	Asset Asset `gorm:"foreignKey:AssetID"`
}

func (ExternalSourceLink) TableName() string {
	return "external_source_links"
}
