package serializers

import (
	"github.com/steemit/yatube/internal/models"
)

// Group is the wire representation of a group
type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// RepresentGroup renders group
func RepresentGroup(group *models.Group) Group {
	return Group{
		ID:          group.ID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
}

// RepresentGroups renders groups in order
func RepresentGroups(groups []*models.Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, RepresentGroup(g))
	}
	return out
}
