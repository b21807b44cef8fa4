package types

import "time"

type Location struct {
	ID        string     `gorm:"column:id;size:50;primaryKey"`
	Name      string     `gorm:"column:name;size:255;not null;uniqueIndex"`
	CreatedAt time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	DeletedAt *time.Time `gorm:"column:deleted_at;type:datetime"`
}

func (Location) TableName() string {
	return "locations"
}
