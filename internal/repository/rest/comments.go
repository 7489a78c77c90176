package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/and161185/blogfront/internal/convert"
	"github.com/and161185/blogfront/internal/model"
)

// Comments implements repository.CommentRepository.
type Comments struct{ c *Client }

// ListByPost fetches GET /posts/{id}/comments.
func (cm *Comments) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	var out []convert.Comment
	if err := cm.c.do(ctx, "list comments", http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil, nil, &out); err != nil {
		return nil, err
	}
	return convert.ToComments(out), nil
}
