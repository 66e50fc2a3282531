package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenService
	log        zerolog.Logger
	bcryptCost int
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log, bcryptCost: bcrypt.DefaultCost}
}

// Register creates a USER account unless a known role is supplied, and
// issues a token for it. An already registered e-mail is a Conflict.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Username) == "" || email == "" || in.Password == "" {
		return nil, "", domain.BadRequest("bad request: required values missing or incorrect format")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, "", domain.Conflict("user already exists")
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, "", domain.Wrap(domain.KindInternal, "user registration failed, try again", err)
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", domain.Wrap(domain.KindInternal, "user registration failed, try again", err)
	}

	role := domain.RoleUser
	if r, ok := domain.ParseRole(in.Role); ok {
		role = r
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Username:       strings.TrimSpace(in.Username),
		HashedPassword: hash,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.Conflict("user already exists")
		}
		return nil, "", domain.Wrap(domain.KindInternal, "user registration failed, try again", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", domain.Wrap(domain.KindInternal, "user registration failed, try again", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return user, token, nil
}

// Login checks the credentials and issues a token. Unknown e-mail and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domain.BadRequest("bad request: please provide email and password for login")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("reason", "unknown_email").Msg("login rejected")
			return nil, "", domain.Unauthorized("invalid credentials")
		}
		return nil, "", domain.Wrap(domain.KindInternal, "login failed, try again", err)
	}

	if !checkPassword(user.HashedPassword, password) {
		s.log.Debug().Str("user_id", user.ID).Str("reason", "password_mismatch").Msg("login rejected")
		return nil, "", domain.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", domain.Wrap(domain.KindInternal, "login failed, try again", err)
	}

	return user, token, nil
}
