package types

import "time"

type ActivityLog struct {
	ID        string    `gorm:"column:id;size:50;primaryKey"`
	Actor     string    `gorm:"column:actor;size:255;not null"`
	AssetID   string    `gorm:"column:asset_id;size:50;index"`
	Action    string    `gorm:"column:action;size:50;not null"`
	Details   *string   `gorm:"column:details;type:json"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

type ImportSyncRun struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	SourceSystem string     `gorm:"column:source_system;size:50;not null;index"`
	FullSnapshot bool       `gorm:"column:full_snapshot;type:boolean;not null"`
	InitiatedBy  string     `gorm:"column:initiated_by;size:255;not null"`
	StartedAt    time.Time  `gorm:"column:started_at;type:datetime;not null"`
	FinishedAt   *time.Time `gorm:"column:finished_at;type:datetime"`
	Created      int        `gorm:"column:created_count;not null;default:0"`
	Updated      int        `gorm:"column:updated_count;not null;default:0"`
	Retired      int        `gorm:"column:retired_count;not null;default:0"`
	Reactivated  int        `gorm:"column:reactivated_count;not null;default:0"`
	Failed       int        `gorm:"column:failed_count;not null;default:0"`
	Skipped      int        `gorm:"column:skipped_count;not null;default:0"`
}

func (ImportSyncRun) TableName() string {
	return "import_sync_runs"
}
