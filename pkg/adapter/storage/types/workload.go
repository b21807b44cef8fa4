package types

import "time"

type WorkloadCategory struct {
	ID          string     `gorm:"column:id;size:50;primaryKey"`
	Name        string     `gorm:"column:name;size:100;not null;uniqueIndex"`
	Description *string    `gorm:"column:description;size:500"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;type:datetime"`

	Rules []WorkloadCategoryRule `gorm:"foreignKey:CategoryID"`
}

func (WorkloadCategory) TableName() string {
	return "workload_categories"
}

type WorkloadCategoryRule struct {
	ID          string     `gorm:"column:id;size:50;primaryKey"`
	CategoryID  string     `gorm:"column:category_id;size:50;not null;index"`
	Priority    int        `gorm:"column:priority;not null;index"`
	SourceField string     `gorm:"column:source_field;size:100;not null"`
	Operator    string     `gorm:"column:operator;size:20;not null"`
	Value       string     `gorm:"column:value;size:255;not null"`
	IsActive    bool       `gorm:"column:is_active;type:boolean;not null;default:true"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	UpdatedAt   *time.Time `gorm:"column:updated_at;type:datetime"`

	Category WorkloadCategory `gorm:"foreignKey:CategoryID"`
}

func (WorkloadCategoryRule) TableName() string {
	return "workload_category_rules"
}
