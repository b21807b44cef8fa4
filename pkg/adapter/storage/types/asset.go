package types

import "time"

type Asset struct {
	ID                 string     `gorm:"column:id;size:50;primaryKey"`
	AssetTag           string     `gorm:"column:asset_tag;size:100;not null;uniqueIndex:idx_asset_tag_deleted"`
	SerialNumber       string     `gorm:"column:serial_number;size:100;not null;uniqueIndex:idx_serial_deleted"`
	Status             string     `gorm:"column:status;type:enum('available','assigned','spare','maintenance','retired','disposed');not null"`
	Condition          *string    `gorm:"column:asset_condition;size:50"`
	Type               string     `gorm:"column:asset_type;size:50;not null"`
	Make               *string    `gorm:"column:make;size:100"`
	Model              *string    `gorm:"column:model;size:255"`
	AssignedTo         *string    `gorm:"column:assigned_to;size:255"`
	AssignedUserID     *string    `gorm:"column:assigned_user_id;size:50;index"`
	LocationID         *string    `gorm:"column:location_id;size:50;index"`
	WorkloadCategoryID *string    `gorm:"column:workload_category_id;size:50;index"`
	Specifications     *string    `gorm:"column:specifications;type:json"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	UpdatedAt          *time.Time `gorm:"column:updated_at;type:datetime"`
	DeletedAt          *time.Time `gorm:"column:deleted_at;type:datetime;uniqueIndex:idx_asset_tag_deleted;uniqueIndex:idx_serial_deleted"`

	SourceLinks       []ExternalSourceLink `gorm:"foreignKey:AssetID"`
	CustomFieldValues []CustomFieldValue   `gorm:"foreignKey:AssetID"`
}

func (Asset) TableName() string {
	return "assets"
}

// CustomField is an operator-defined attribute schema entry.
type CustomField struct {
	ID        string     `gorm:"column:id;size:50;primaryKey"`
	Name      string     `gorm:"column:name;size:100;not null;uniqueIndex"`
	FieldType string     `gorm:"column:field_type;type:enum('text','number','date');not null;default:'text'"`
	CreatedAt time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	DeletedAt *time.Time `gorm:"column:deleted_at;type:datetime"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}

type CustomFieldValue struct {
	ID            string     `gorm:"column:id;size:50;primaryKey"`
	AssetID       string     `gorm:"column:asset_id;size:50;not null;uniqueIndex:idx_asset_field"`
	CustomFieldID string     `gorm:"column:custom_field_id;size:50;not null;uniqueIndex:idx_asset_field"`
	Value         string     `gorm:"column:value;size:500;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	UpdatedAt     *time.Time `gorm:"column:updated_at;type:datetime"`

	Asset       Asset       `gorm:"foreignKey:AssetID"`
	CustomField CustomField `gorm:"foreignKey:CustomFieldID"`
}

func (CustomFieldValue) TableName() string {
	return "custom_field_values"
}
