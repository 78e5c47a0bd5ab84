package serializers

import (
	"github.com/steemit/yatube/internal/models"
)

// Comment is the wire representation of a comment
type Comment struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Post    int64  `json:"post"`
	Text    string `json:"text"`
	Created string `json:"created"`
}

// CommentInput holds the validated writable fields of a comment
type CommentInput struct {
	Text *string
}

// ValidateComment checks data. With partial set, text is not required.
func ValidateComment(data Data, partial bool) (*CommentInput, error) {
	errs := ValidationError{}
	in := &CommentInput{Text: charField(data, "text", !partial, errs)}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

// ApplyComment copies the validated input onto comment
func ApplyComment(comment *models.Comment, in *CommentInput) {
	if in.Text != nil {
		comment.Text = *in.Text
	}
}

// RepresentComment renders comment; its Author must be loaded
func RepresentComment(comment *models.Comment) Comment {
	out := Comment{
		ID:      comment.ID,
		Post:    comment.PostID,
		Text:    comment.Text,
		Created: FormatTime(comment.Created),
	}
	if comment.Author != nil {
		out.Author = comment.Author.Username
	}
	return out
}

// RepresentComments renders comments in order
func RepresentComments(comments []*models.Comment) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, RepresentComment(c))
	}
	return out
}
