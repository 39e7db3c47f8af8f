package mock

import (
	"context"

	"github.com/jbekker/capescout"
)

var _ capescout.CommentService = (*CommentService)(nil)

// CommentService is a mock implementation of capescout.CommentService.
type CommentService struct {
	CreateCommentFn          func(ctx context.Context, c *capescout.Comment) error
	FindCommentsByPropertyFn func(ctx context.Context, propertyID string) ([]*capescout.Comment, error)
	LikeCommentFn            func(ctx context.Context, id string) (int, error)
}

func (s *CommentService) CreateComment(ctx context.Context, c *capescout.Comment) error {
	return s.CreateCommentFn(ctx, c)
}

func (s *CommentService) FindCommentsByPropertyID(ctx context.Context, propertyID string) ([]*capescout.Comment, error) {
	return s.FindCommentsByPropertyFn(ctx, propertyID)
}

func (s *CommentService) LikeComment(ctx context.Context, id string) (int, error) {
	return s.LikeCommentFn(ctx, id)
}
