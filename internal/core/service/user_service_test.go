package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

func seedUsers() []*domain.User {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.User{
		{ID: "u1", Email: "u1@example.com", Username: "one", HashedPassword: "h1", Role: domain.RoleUser, CreatedAt: base},
		{ID: "u2", Email: "u2@example.com", Username: "two", HashedPassword: "h2", Role: domain.RoleAdmin, CreatedAt: base.Add(time.Hour)},
		{ID: "u3", Email: "u3@example.com", Username: "three", HashedPassword: "h3", Role: domain.RoleUser, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func newTestUserService(repo ports.UserRepository, cache ports.UserCache) *UserService {
	svc := NewUserService(repo, cache, zerolog.Nop())
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestUserService_Lookup_ReadsThroughCache(t *testing.T) {
	repo := newStubUserRepo(seedUsers()...)
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)

	first, err := svc.Lookup(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if first.Email != "u1@example.com" {
		t.Fatalf("unexpected user: %+v", first)
	}
	if _, ok := cache.users["u1"]; !ok {
		t.Fatalf("expected user to be cached")
	}

	// served from cache once the store forgets the user
	delete(repo.users, "u1")
	second, err := svc.Lookup(context.Background(), "u1")
	if err != nil {
		t.Fatalf("cached Lookup returned error: %v", err)
	}
	if second.ID != "u1" || second.HashedPassword != "" {
		t.Fatalf("unexpected cached user: %+v", second)
	}
}

// findHookRepo runs afterFind once, between the store read and the cache fill.
type findHookRepo struct {
	*stubUserRepo
	afterFind func()
}

func (r *findHookRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.stubUserRepo.FindByID(ctx, id)
	if r.afterFind != nil {
		hook := r.afterFind
		r.afterFind = nil
		hook()
	}
	return u, err
}

func TestUserService_Lookup_DropsFillOverlappingUpdate(t *testing.T) {
	repo := &findHookRepo{stubUserRepo: newStubUserRepo(seedUsers()...)}
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)

	repo.afterFind = func() {
		if _, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Username: strPtr("renamed")}); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
	}

	if _, err := svc.Lookup(context.Background(), "u1"); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if _, ok := cache.users["u1"]; ok {
		t.Fatalf("stale read must not stay cached after a concurrent update")
	}

	// the next lookup fills the cache with the updated user
	fresh, err := svc.Lookup(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if fresh.Username != "renamed" || cache.users["u1"] == nil {
		t.Fatalf("expected fresh cached user, got %+v", fresh)
	}
}

func TestUserService_Lookup_NotFoundIsRaw(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	_, err := svc.Lookup(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, ok := domain.AsError(err); ok {
		t.Fatalf("Lookup should not wrap not-found into an application error")
	}
}

func TestUserService_Get(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(seedUsers()...), nil)

	user, err := svc.Get(context.Background(), "u2")
	if err != nil || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result: %+v %v", user, err)
	}
	if _, err := svc.Get(context.Background(), "nope"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(seedUsers()...), nil)

	all, err := svc.List(context.Background(), ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "u3" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	users, err := svc.List(context.Background(), ports.ListUsersInput{Role: "user"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 USER accounts, got %d", len(users))
	}

	page, err := svc.List(context.Background(), ports.ListUsersInput{Page: "2", PageSize: "2"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page) != 1 || page[0].ID != "u1" {
		t.Fatalf("unexpected second page: %+v", page)
	}
}

func TestUserService_List_InvalidRole(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(seedUsers()...), nil)

	_, err := svc.List(context.Background(), ports.ListUsersInput{Role: "root"})
	e, ok := domain.AsError(err)
	if !ok || e.Kind != domain.KindBadRequest || e.Message != "no such role exists" {
		t.Fatalf("expected BadRequest no such role exists, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newStubUserRepo(seedUsers()...)
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)

	user, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{
		Username: strPtr("uno"),
		Password: strPtr("newpass"),
		Role:     strPtr("admin"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.Username != "uno" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !checkPassword(repo.users["u1"].HashedPassword, "newpass") {
		t.Fatalf("expected password to be rehashed")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "u1" {
		t.Fatalf("expected cache invalidation for u1, got %v", cache.invalidated)
	}
}

func TestUserService_Update_Errors(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(seedUsers()...), nil)

	cases := []struct {
		name string
		id   string
		in   ports.UpdateUserInput
		kind domain.Kind
	}{
		{"empty body", "u1", ports.UpdateUserInput{}, domain.KindBadRequest},
		{"bad role", "u1", ports.UpdateUserInput{Role: strPtr("owner")}, domain.KindBadRequest},
		{"blank email", "u1", ports.UpdateUserInput{Email: strPtr(" ")}, domain.KindBadRequest},
		{"missing user", "ghost", ports.UpdateUserInput{Username: strPtr("x")}, domain.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), tc.id, tc.in); !domain.IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo(seedUsers()...)
	cache := newStubUserCache()
	svc := newTestUserService(repo, cache)

	deleted, err := svc.Delete(context.Background(), "u3")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted.ID != "u3" {
		t.Fatalf("unexpected deleted user: %+v", deleted)
	}
	if _, ok := repo.users["u3"]; ok {
		t.Fatalf("expected user to be removed")
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("expected cache invalidation")
	}

	if _, err := svc.Delete(context.Background(), "u3"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestUserService_StoreFailure(t *testing.T) {
	repo := newStubUserRepo(seedUsers()...)
	repo.err = errStore
	svc := newTestUserService(repo, nil)

	if _, err := svc.List(context.Background(), ports.ListUsersInput{}); !domain.IsKind(err, domain.KindInternal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if _, err := svc.Delete(context.Background(), "u1"); !errors.Is(err, errStore) {
		t.Fatalf("expected store error to be preserved, got %v", err)
	}
}
