package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

var errStore = errors.New("store unavailable")

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.User
	for _, u := range r.users {
		if f.Role == "" || u.Role == f.Role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Offset(), f.PageSize), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.HashedPassword != nil {
		u.HashedPassword = *upd.HashedPassword
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return u, nil
}

type stubRaceRepo struct {
	races      map[string]*domain.Race
	lastFilter ports.RaceFilter
	err        error
}

func newStubRaceRepo(races ...*domain.Race) *stubRaceRepo {
	r := &stubRaceRepo{races: make(map[string]*domain.Race)}
	for _, race := range races {
		clone := *race
		r.races[race.ID] = &clone
	}
	return r
}

func (r *stubRaceRepo) Create(_ context.Context, race *domain.Race) error {
	if r.err != nil {
		return r.err
	}
	clone := *race
	r.races[race.ID] = &clone
	return nil
}

func (r *stubRaceRepo) FindByID(_ context.Context, id string) (*domain.Race, error) {
	if r.err != nil {
		return nil, r.err
	}
	race, ok := r.races[id]
	if !ok {
		return nil, domain.ErrRaceNotFound
	}
	clone := *race
	return &clone, nil
}

func (r *stubRaceRepo) List(_ context.Context, f ports.RaceFilter) ([]*domain.Race, error) {
	r.lastFilter = f
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Race
	for _, race := range r.races {
		if f.Type != "" && race.Type != f.Type {
			continue
		}
		clone := *race
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubRaceRepo) Update(_ context.Context, id string, upd ports.RaceUpdate) (*domain.Race, error) {
	if r.err != nil {
		return nil, r.err
	}
	race, ok := r.races[id]
	if !ok {
		return nil, domain.ErrRaceNotFound
	}
	if upd.Title != nil {
		race.Title = *upd.Title
	}
	if upd.Championship != nil {
		race.Championship = *upd.Championship
	}
	if upd.Type != nil {
		race.Type = *upd.Type
	}
	if upd.Location != nil {
		race.Location = *upd.Location
	}
	if upd.RaceStartTime != nil {
		race.RaceStartTime = *upd.RaceStartTime
	}
	clone := *race
	return &clone, nil
}

func (r *stubRaceRepo) Delete(_ context.Context, id string) (*domain.Race, error) {
	if r.err != nil {
		return nil, r.err
	}
	race, ok := r.races[id]
	if !ok {
		return nil, domain.ErrRaceNotFound
	}
	delete(r.races, id)
	return race, nil
}

type stubUserCache struct {
	users       map[string]*domain.User
	gets        int
	invalidated []string
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{users: make(map[string]*domain.User)}
}

func (c *stubUserCache) Get(_ context.Context, id string) (*domain.User, bool, error) {
	c.gets++
	u, ok := c.users[id]
	return cloneUser(u), ok, nil
}

func (c *stubUserCache) Set(_ context.Context, u *domain.User) error {
	clone := cloneUser(u)
	clone.HashedPassword = ""
	c.users[u.ID] = clone
	return nil
}

func (c *stubUserCache) Invalidate(_ context.Context, id string) error {
	delete(c.users, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func paginate[T any](items []T, offset, size int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + size
	if size <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func strPtr(s string) *string { return &s }
