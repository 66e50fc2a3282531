package ports

import "github.com/eventvault/racing-api/internal/core/domain"

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*domain.TokenPayload, error)
}
