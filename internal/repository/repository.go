// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; the
// service tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/arefin/blog-api/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists user accounts.
//
// Create returns apperror.ErrConflict when the email is already taken.
// GetByID/GetByEmail return apperror.ErrNotFound for unknown records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Upsert creates the user if no account with the email exists, and
	// otherwise refreshes the mutable profile fields. Used by OAuth login.
	Upsert(ctx context.Context, user *model.User) error
}

// PostRepository persists blog posts.
//
// List returns posts newest-first. Update and Delete return
// apperror.ErrNotFound when the id does not resolve.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, opts ListOptions) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}
