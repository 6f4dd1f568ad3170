package user

import "time"

// User.ID is minted by the counter, not by the database.
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false"`
	UID          string     `gorm:"column:uid;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Role         string     `gorm:"column:role;index;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	LastActive   *time.Time `gorm:"column:last_active"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
