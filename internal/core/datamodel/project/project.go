package project

import (
	"time"

	"gorm.io/datatypes"
)

// Project stores the category union as two nullable columns and the SOW union
// as raw JSON; the domain package owns decoding both.
type Project struct {
	ID            int64                       `gorm:"primaryKey"`
	Source        string                      `gorm:"column:source"`
	Name          string                      `gorm:"column:project_name;not null"`
	Status        string                      `gorm:"column:project_status;index;not null"`
	Date          string                      `gorm:"column:date"`
	Quarter       string                      `gorm:"column:quarter"`
	CategoryID    *int64                      `gorm:"column:category_id;index"`
	CategoryText  string                      `gorm:"column:category_text"`
	Brand         string                      `gorm:"column:brand"`
	Platforms     datatypes.JSONSlice[string] `gorm:"column:platform"`
	PlatformLinks datatypes.JSONMap           `gorm:"column:platform_link"`
	SOW           datatypes.JSON              `gorm:"column:sow"`
	Division      string                      `gorm:"column:division"`
	Views         int64                       `gorm:"column:views;not null;default:0"`
	Likes         int64                       `gorm:"column:likes;not null;default:0"`
	Comments      int64                       `gorm:"column:comments;not null;default:0"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
