package serializers

import (
	"context"
	"fmt"

	"github.com/steemit/yatube/internal/models"
)

// UserLookup finds users by username
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// FollowLookup checks for existing follows
type FollowLookup interface {
	Exists(ctx context.Context, userID, followingID int64) (bool, error)
}

// Follow is the wire representation of a follow
type Follow struct {
	User      string `json:"user"`
	Following string `json:"following"`
}

// FollowSerializer validates new follows
type FollowSerializer struct {
	users   UserLookup
	follows FollowLookup
}

// NewFollowSerializer creates a follow serializer
func NewFollowSerializer(users UserLookup, follows FollowLookup) *FollowSerializer {
	return &FollowSerializer{users: users, follows: follows}
}

// Validate checks that user may follow the username in data. Field
// checks run first, then uniqueness of the pair, then the self-follow
// rule. The returned follow is marked as validated.
func (s *FollowSerializer) Validate(ctx context.Context, data Data, user *models.User) (*models.Follow, error) {
	following, err := s.validateFollowing(ctx, data)
	if err != nil {
		return nil, err
	}

	exists, err := s.follows.Exists(ctx, user.ID, following.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow: %w", err)
	}
	if exists {
		return nil, FieldError(NonFieldErrors, MsgFollowUnique)
	}

	follow := &models.Follow{
		UserID:      user.ID,
		FollowingID: following.ID,
		User:        user,
		Following:   following,
	}
	if follow.UserID == follow.FollowingID {
		return nil, FieldError("following", MsgSelfFollow)
	}
	follow.MarkValidated()
	return follow, nil
}

func (s *FollowSerializer) validateFollowing(ctx context.Context, data Data) (*models.User, error) {
	raw, ok := data["following"]
	if !ok {
		return nil, FieldError("following", MsgRequired)
	}
	if raw == nil || raw == "" {
		return nil, FieldError("following", MsgNull)
	}
	username, ok := slugValue(raw)
	if !ok {
		return nil, FieldError("following", MsgInvalidValue)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	if user == nil {
		return nil, FieldError("following", fmt.Sprintf("Object with username=%s does not exist.", username))
	}
	return user, nil
}

// RepresentFollow renders follow; both users must be loaded
func RepresentFollow(follow *models.Follow) Follow {
	var out Follow
	if follow.User != nil {
		out.User = follow.User.Username
	}
	if follow.Following != nil {
		out.Following = follow.Following.Username
	}
	return out
}

// RepresentFollows renders follows in order
func RepresentFollows(follows []*models.Follow) []Follow {
	out := make([]Follow, 0, len(follows))
	for _, f := range follows {
		out = append(out, RepresentFollow(f))
	}
	return out
}
