package ports

import (
	"context"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // optional; anything but a known role becomes USER
}

// AuthService implements registration and login. Both return the user and a
// freshly issued token.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}
