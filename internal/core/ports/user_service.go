package ports

import (
	"context"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// ListUsersInput carries the raw query string values of the listing endpoint.
type ListUsersInput struct {
	Role     string
	Page     string
	PageSize string
}

// UpdateUserInput carries the user fields a caller asked to change.
type UpdateUserInput struct {
	Email    *string
	Username *string
	Password *string
	Role     *string
}

// UserService defines use-case operations on user profiles.
type UserService interface {
	// Lookup resolves the caller of a request. It returns domain.ErrUserNotFound
	// rather than an application error so gates can tell the cases apart.
	Lookup(ctx context.Context, id string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, in ListUsersInput) ([]*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
