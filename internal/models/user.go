package models

import (
	"time"
)

// User represents an account that can author posts and comments
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username   string    `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username"`
	Password   string    `gorm:"type:varchar(128);not null;column:password"`
	IsActive   bool      `gorm:"not null;column:is_active"`
	DateJoined time.Time `gorm:"not null;autoCreateTime;column:date_joined"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Authored is implemented by every object that has an owning author
type Authored interface {
	AuthorKey() int64
}
