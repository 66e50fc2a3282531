package ports

import (
	"context"
	"math"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// UserFilter carries the query parameters for listing users.
type UserFilter struct {
	Role     domain.Role // empty = all roles
	Page     int         // 1-based
	PageSize int
}

// Offset is the number of rows skipped before the page starts.
func (f UserFilter) Offset() int { return offset(f.Page, f.PageSize) }

// UserUpdate lists the fields to change; nil fields are left untouched.
type UserUpdate struct {
	Email          *string
	Username       *string
	HashedPassword *string
	Role           *domain.Role
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.HashedPassword == nil && u.Role == nil
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts user. A duplicate e-mail yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns one page ordered by creation time, newest first.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

// offset clamps to math.MaxInt instead of overflowing.
func offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
