package serializers

import (
	"context"
	"fmt"

	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/internal/storage"
)

// GroupLookup loads groups referenced by posts
type GroupLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
}

// PostNullableFields are the post fields a form body clears with an empty value
var PostNullableFields = []string{"group", "image"}

// Post is the wire representation of a post
type Post struct {
	ID      int64   `json:"id"`
	Text    string  `json:"text"`
	PubDate string  `json:"pub_date"`
	Author  string  `json:"author"`
	Image   *string `json:"image"`
	Group   *int64  `json:"group"`
}

// PostInput holds the validated writable fields of a post. Fields that
// were absent from the request are left unset.
type PostInput struct {
	Text     *string
	GroupSet bool
	GroupID  *int64
	ImageSet bool
	Image    *ImageFile
}

// PostSerializer validates post payloads and renders posts
type PostSerializer struct {
	groups GroupLookup
	store  storage.Store
	image  ImageField
}

// NewPostSerializer creates a post serializer
func NewPostSerializer(groups GroupLookup, store storage.Store, maxImageSize int64) *PostSerializer {
	return &PostSerializer{
		groups: groups,
		store:  store,
		image:  ImageField{MaxSize: maxImageSize},
	}
}

// Validate checks data. With partial set, text is not required.
func (s *PostSerializer) Validate(ctx context.Context, data Data, partial bool) (*PostInput, error) {
	errs := ValidationError{}
	in := &PostInput{}

	in.Text = charField(data, "text", !partial, errs)

	if raw, ok := data["group"]; ok {
		id, err := s.validateGroup(ctx, raw, errs)
		if err != nil {
			return nil, err
		}
		in.GroupSet = true
		in.GroupID = id
	}

	if raw, ok := data["image"]; ok {
		file, msgs := s.image.Decode(raw)
		for _, msg := range msgs {
			errs.Add("image", msg)
		}
		in.ImageSet = true
		in.Image = file
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *PostSerializer) validateGroup(ctx context.Context, raw interface{}, errs ValidationError) (*int64, error) {
	if raw == nil || raw == "" {
		return nil, nil
	}
	id, ok := pkValue(raw)
	if !ok {
		errs.Add("group", fmt.Sprintf("Incorrect type. Expected pk value, received %s.", typeName(raw)))
		return nil, nil
	}
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load group %d: %w", id, err)
	}
	if group == nil {
		errs.Add("group", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		return nil, nil
	}
	return &id, nil
}

// Apply copies the validated input onto post, storing a new image if one
// was submitted. It returns the stored image path, empty when none was written.
func (s *PostSerializer) Apply(ctx context.Context, post *models.Post, in *PostInput) (string, error) {
	if in.Text != nil {
		post.Text = *in.Text
	}
	if in.GroupSet {
		post.GroupID = in.GroupID
	}
	if !in.ImageSet {
		return "", nil
	}
	if in.Image == nil {
		post.Image = ""
		return "", nil
	}

	path, err := s.store.Save(ctx, storage.ImageName(in.Image.Ext), in.Image.Data, in.Image.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	post.Image = path
	return path, nil
}

// Represent renders post; its Author must be loaded
func (s *PostSerializer) Represent(post *models.Post) Post {
	out := Post{
		ID:      post.ID,
		Text:    post.Text,
		PubDate: FormatTime(post.PubDate),
		Group:   post.GroupID,
	}
	if post.Author != nil {
		out.Author = post.Author.Username
	}
	if post.Image != "" {
		url := s.store.URL(post.Image)
		out.Image = &url
	}
	return out
}

// RepresentList renders posts in order
func (s *PostSerializer) RepresentList(posts []*models.Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.Represent(p))
	}
	return out
}
