package repository

import (
	"context"

	"github.com/and161185/blogfront/internal/model"
)

// PostRepository provides read/write access to posts held by the provider.
type PostRepository interface {
	// List returns all posts in provider order.
	List(ctx context.Context) ([]model.Post, error)
	// ListByUser returns posts authored by userID.
	ListByUser(ctx context.Context, userID int64) ([]model.Post, error)
	// Get returns a single post by ID.
	Get(ctx context.Context, id int64) (model.Post, error)
	// Create publishes a new post and returns the provider's echo.
	Create(ctx context.Context, d model.PostDraft) (model.Post, error)
	// Update replaces title/body/userId of an existing post.
	Update(ctx context.Context, id int64, d model.PostDraft) (model.Post, error)
	// Delete removes a post.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository provides read-only access to comments.
type CommentRepository interface {
	// ListByPost returns the comments of postID.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}
