package models

import (
	"errors"
	"regexp"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ErrInvalidSlug is returned when a group slug contains anything but letters, digits, hyphens or underscores
var ErrInvalidSlug = errors.New("slug may only contain letters, numbers, underscores or hyphens")

// Group categorizes posts
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string `gorm:"type:varchar(200);not null;uniqueIndex:post_groups_title_ux;column:title"`
	Slug        string `gorm:"type:varchar(50);not null;uniqueIndex:post_groups_slug_ux;column:slug"`
	Description string `gorm:"type:text;not null;column:description"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "post_groups"
}

// Validate checks field constraints the database does not enforce
func (g *Group) Validate() error {
	if g.Title == "" {
		return errors.New("title is required")
	}
	if len(g.Title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	if len(g.Slug) > 50 {
		return errors.New("slug must be at most 50 characters")
	}
	if !slugPattern.MatchString(g.Slug) {
		return ErrInvalidSlug
	}
	return nil
}
