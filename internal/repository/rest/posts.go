package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/blogfront/internal/convert"
	"github.com/and161185/blogfront/internal/model"
)

// List fetches GET /posts.
func (c *Client) List(ctx context.Context) ([]model.Post, error) {
	var out []convert.Post
	if err := c.do(ctx, "list posts", http.MethodGet, "/posts", nil, nil, &out); err != nil {
		return nil, err
	}
	return convert.ToPosts(out), nil
}

// ListByUser fetches GET /posts?userId=.
func (c *Client) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	var out []convert.Post
	if err := c.do(ctx, "list user posts", http.MethodGet, "/posts", q, nil, &out); err != nil {
		return nil, err
	}
	return convert.ToPosts(out), nil
}

// Get fetches GET /posts/{id}.
func (c *Client) Get(ctx context.Context, id int64) (model.Post, error) {
	var out convert.Post
	if err := c.do(ctx, "get post", http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil, &out); err != nil {
		return model.Post{}, err
	}
	return convert.ToPost(out), nil
}

// Create sends POST /posts and returns the echoed post with its assigned id.
func (c *Client) Create(ctx context.Context, d model.PostDraft) (model.Post, error) {
	var out convert.Post
	if err := c.do(ctx, "create post", http.MethodPost, "/posts", nil, convert.FromDraft(0, d), &out); err != nil {
		return model.Post{}, err
	}
	return convert.ToPost(out), nil
}

// Update sends PUT /posts/{id}.
func (c *Client) Update(ctx context.Context, id int64, d model.PostDraft) (model.Post, error) {
	var out convert.Post
	if err := c.do(ctx, "update post", http.MethodPut, fmt.Sprintf("/posts/%d", id), nil, convert.FromDraft(id, d), &out); err != nil {
		return model.Post{}, err
	}
	return convert.ToPost(out), nil
}

// Delete sends DELETE /posts/{id}.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete post", http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil, nil)
}
