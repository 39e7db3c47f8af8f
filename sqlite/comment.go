package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jbekker/capescout"
)

// Compile-time interface verification.
var _ capescout.CommentService = (*CommentService)(nil)

// CommentService implements capescout.CommentService using SQLite.
type CommentService struct {
	db *DB
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *DB) *CommentService {
	return &CommentService{db: db}
}

// CreateComment creates a new comment on a property.
func (s *CommentService) CreateComment(ctx context.Context, c *capescout.Comment) error {
	if c.UserAvatar == "" {
		c.UserAvatar = capescout.DefaultAvatar
	}
	if err := c.Validate(); err != nil {
		return err
	}

	// The comments table cascades on property deletion, so verify the
	// property exists up front to report ENOTFOUND instead of a
	// foreign key violation.
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM properties WHERE id = ?", c.PropertyID).Scan(&exists)
	if err == sql.ErrNoRows {
		return capescout.Errorf(capescout.ENOTFOUND, "property not found")
	}
	if err != nil {
		return err
	}

	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comments (id, property_id, user_name, user_avatar, text, likes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.PropertyID, c.UserName, c.UserAvatar, c.Text, c.Likes, c.CreatedAt.Format(time.RFC3339))
	return err
}

// FindCommentsByPropertyID retrieves a property's comments, newest first.
func (s *CommentService) FindCommentsByPropertyID(ctx context.Context, propertyID string) ([]*capescout.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, user_name, user_avatar, text, likes, created_at
		FROM comments
		WHERE property_id = ?
		ORDER BY created_at DESC, id ASC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*capescout.Comment
	for rows.Next() {
		var c capescout.Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.UserName, &c.UserAvatar, &c.Text, &c.Likes, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// LikeComment adds one like to a comment and returns the new total.
func (s *CommentService) LikeComment(ctx context.Context, id string) (int, error) {
	var likes int
	err := s.db.QueryRowContext(ctx,
		"UPDATE comments SET likes = likes + 1 WHERE id = ? RETURNING likes", id,
	).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, capescout.Errorf(capescout.ENOTFOUND, "comment not found")
	}
	if err != nil {
		return 0, err
	}
	return likes, nil
}
