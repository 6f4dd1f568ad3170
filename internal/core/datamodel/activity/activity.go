package activity

import "time"

type ActivityLog struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:activity_title;not null"`
	Description string    `gorm:"column:activity_description"`
	ByUser      string    `gorm:"column:by_user;index"`
	Timestamp   time.Time `gorm:"column:timestamp;index;not null"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
