package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

// UserService implements profile operations and the caller lookup used by
// the auth gates.
type UserService struct {
	repo       ports.UserRepository
	cache      ports.UserCache
	log        zerolog.Logger
	bcryptCost int

	// invalidations counts cache invalidations made by this process.
	invalidations atomic.Uint64
}

// NewUserService returns a UserService. A nil cache disables caching.
func NewUserService(repo ports.UserRepository, cache ports.UserCache, log zerolog.Logger) *UserService {
	if cache == nil {
		cache = NopUserCache{}
	}
	return &UserService{repo: repo, cache: cache, log: log, bcryptCost: bcrypt.DefaultCost}
}

// Lookup reads through the cache. Repository errors are returned unchanged.
// A fill that overlaps an update or delete in this process is dropped again;
// writes from other processes can still leave an entry stale for the cache TTL.
func (s *UserService) Lookup(ctx context.Context, id string) (*domain.User, error) {
	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
	} else if ok {
		return cached, nil
	}

	seen := s.invalidations.Load()
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache write failed")
	}
	if s.invalidations.Load() != seen {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
		}
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request, invalid id parameter")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Wrap(domain.KindInternal, "something went wrong", err)
	}
	return user, nil
}

// List returns one page of users, newest first. A role filter that names no
// known role is a BadRequest.
func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) ([]*domain.User, error) {
	var filter ports.UserFilter

	if in.Role != "" {
		role, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, domain.BadRequest("no such role exists")
		}
		filter.Role = role
	}
	filter.Page, filter.PageSize = pagination(in.Page, in.PageSize)

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "something went wrong", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request, invalid id parameter")
	}

	var update ports.UserUpdate
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, domain.BadRequest("bad request: email cannot be empty")
		}
		update.Email = &email
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, domain.BadRequest("bad request: username cannot be empty")
		}
		update.Username = &username
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.BadRequest("bad request: password cannot be empty")
		}
		hash, err := hashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, domain.Wrap(domain.KindInternal, "user update failed", err)
		}
		update.HashedPassword = &hash
	}
	if in.Role != nil {
		role, ok := domain.ParseRole(*in.Role)
		if !ok {
			return nil, domain.BadRequest("no such role exists")
		}
		update.Role = &role
	}
	if update.Empty() {
		return nil, domain.BadRequest("nothing to update")
	}

	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.NotFound("user not found")
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, domain.Conflict("email already in use")
		}
		return nil, domain.Wrap(domain.KindInternal, "user update failed", err)
	}

	s.invalidate(ctx, id)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request, invalid id parameter")
	}

	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Wrap(domain.KindInternal, "user deletion failed", err)
	}

	s.invalidate(ctx, id)
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return user, nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	s.invalidations.Add(1)
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

// NopUserCache never holds anything.
type NopUserCache struct{}

func (NopUserCache) Get(context.Context, string) (*domain.User, bool, error) { return nil, false, nil }
func (NopUserCache) Set(context.Context, *domain.User) error                 { return nil }
func (NopUserCache) Invalidate(context.Context, string) error                { return nil }
