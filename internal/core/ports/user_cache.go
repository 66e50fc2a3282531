package ports

import (
	"context"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// UserCache holds recently looked-up users for the auth gates.
// Cached users never carry a password hash.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}
