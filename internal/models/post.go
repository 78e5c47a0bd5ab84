package models

import (
	"time"
)

// Post represents a blog post
type Post struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Text     string    `gorm:"type:text;not null;column:text"`
	PubDate  time.Time `gorm:"not null;index;autoCreateTime;column:pub_date"`
	AuthorID int64     `gorm:"not null;index;column:author_id"`
	Image    string    `gorm:"type:varchar(255);not null;default:'';column:image"`
	GroupID  *int64    `gorm:"index;column:group_id"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// AuthorKey implements Authored
func (p *Post) AuthorKey() int64 {
	return p.AuthorID
}
