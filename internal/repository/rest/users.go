package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/and161185/blogfront/internal/convert"
	"github.com/and161185/blogfront/internal/model"
)

// Users implements repository.UserRepository.
type Users struct{ c *Client }

// List fetches GET /users.
func (u *Users) List(ctx context.Context) ([]model.User, error) {
	var out []convert.User
	if err := u.c.do(ctx, "list users", http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return convert.ToUsers(out), nil
}

// Get fetches GET /users/{id}.
func (u *Users) Get(ctx context.Context, id int64) (model.User, error) {
	var out convert.User
	if err := u.c.do(ctx, "get user", http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return model.User{}, err
	}
	return convert.ToUser(out), nil
}
