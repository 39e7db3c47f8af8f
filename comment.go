package capescout

import (
	"context"
	"time"
	"unicode/utf8"
)

// DefaultAvatar is used for comments posted without an avatar.
const DefaultAvatar = "👤"

// Comment represents a user comment on a stored property.
type Comment struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar"`
	Text       string    `json:"text"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate returns an error if the comment contains invalid fields.
func (c *Comment) Validate() error {
	if c.PropertyID == "" {
		return Errorf(EINVALID, "comment property ID required")
	}
	if c.UserName == "" {
		return Errorf(EINVALID, "comment user name required")
	}
	if utf8.RuneCountInString(c.UserName) > 100 {
		return Errorf(EINVALID, "comment user name too long")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "comment text required")
	}
	return nil
}

// CommentService represents a service for managing property comments.
type CommentService interface {
	// CreateComment creates a new comment on a property.
	// Returns ENOTFOUND if the property does not exist.
	CreateComment(ctx context.Context, c *Comment) error

	// FindCommentsByPropertyID retrieves a property's comments,
	// newest first.
	FindCommentsByPropertyID(ctx context.Context, propertyID string) ([]*Comment, error)

	// LikeComment adds one like to a comment and returns the new total.
	// Returns ENOTFOUND if the comment does not exist.
	LikeComment(ctx context.Context, id string) (int, error)
}
