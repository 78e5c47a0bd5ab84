package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrSelfFollow is returned when a user tries to follow themselves
var ErrSelfFollow = errors.New("user cannot follow themselves")

// Follow represents a user subscribing to another user's posts
type Follow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      int64 `gorm:"not null;uniqueIndex:unique_user_following,priority:1;column:user_id"`
	FollowingID int64 `gorm:"not null;uniqueIndex:unique_user_following,priority:2;index;column:following_id"`

	// Relationships
	User      *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`

	validated bool
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// Validate checks the follow invariants and marks the record as validated
func (f *Follow) Validate() error {
	if f.UserID == f.FollowingID {
		return ErrSelfFollow
	}
	f.validated = true
	return nil
}

// MarkValidated records that the write path already ran Validate's checks
func (f *Follow) MarkValidated() {
	f.validated = true
}

// BeforeSave runs full validation unless it already happened upstream
func (f *Follow) BeforeSave(tx *gorm.DB) error {
	if f.validated {
		return nil
	}
	return f.Validate()
}
