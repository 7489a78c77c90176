// Package repository defines provider interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/blogfront/internal/model"
)

// UserRepository provides read-only access to provider users.
type UserRepository interface {
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)
	// Get loads a user by ID.
	Get(ctx context.Context, id int64) (model.User, error)
}
