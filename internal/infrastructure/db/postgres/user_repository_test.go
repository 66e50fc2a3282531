package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

var created = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "username", "hashed_password", "role", "created_at"})
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	u := &domain.User{ID: "u1", Email: "a@x.com", Username: "a", HashedPassword: "h", Role: domain.RoleUser, CreatedAt: created}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, email, username, hashed_password, role, created_at)")).
		WithArgs("u1", "a@x.com", "a", "h", "USER", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &domain.User{ID: "u1", Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@x.com").
		WillReturnRows(userRows().AddRow("u1", "a@x.com", "a", "h", "ADMIN", created))

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "u1", Email: "a@x.com", Username: "a", HashedPassword: "h", Role: domain.RoleAdmin, CreatedAt: created}, u)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(userRows())

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("USER", 5, 5).
		WillReturnRows(userRows().
			AddRow("u2", "b@x.com", "b", "h", "USER", created.Add(time.Hour)).
			AddRow("u1", "a@x.com", "a", "h", "USER", created))

	users, err := repo.List(context.Background(), ports.UserFilter{Role: domain.RoleUser, Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_AllRoles(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, username, hashed_password, role, created_at FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(userRows())

	users, err := repo.List(context.Background(), ports.UserFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	username := "b"
	role := domain.RoleAdmin

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET username = $1, role = $2 WHERE id = $3 RETURNING")).
		WithArgs("b", "ADMIN", "u1").
		WillReturnRows(userRows().AddRow("u1", "a@x.com", "b", "h", "ADMIN", created))

	u, err := repo.Update(context.Background(), "u1", ports.UserUpdate{Username: &username, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "b", u.Username)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestUserRepository_Update_Missing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	email := "new@x.com"

	mock.ExpectQuery("UPDATE users SET email").WillReturnRows(userRows())

	_, err := repo.Update(context.Background(), "ghost", ports.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM users WHERE id = $1 RETURNING")).
		WithArgs("u1").
		WillReturnRows(userRows().AddRow("u1", "a@x.com", "a", "h", "USER", created))

	u, err := repo.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	mock.ExpectQuery("DELETE FROM users").WithArgs("u1").WillReturnRows(userRows())
	_, err = repo.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_WrapsDriverErrors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM users").WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "postgres.UserRepository.FindByID")
}
