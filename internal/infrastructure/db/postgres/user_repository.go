package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

const userColumns = "id, email, username, hashed_password, role, created_at"

type userRow struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	Username       string    `db:"username"`
	HashedPassword string    `db:"hashed_password"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Email:          r.Email,
		Username:       r.Username,
		HashedPassword: r.HashedPassword,
		Role:           domain.Role(r.Role),
		CreatedAt:      r.CreatedAt,
	}
}

// UserRepository stores users in the users table.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const op = "postgres.UserRepository.Create"
	const q = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Username, u.HashedPassword, string(u.Role), u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "postgres.UserRepository.FindByID", "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "postgres.UserRepository.FindByEmail", "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, op, col, val string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + col + ` = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, q, val); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	const op = "postgres.UserRepository.List"

	var qb query
	if f.Role != "" {
		qb.where("role = ?", string(f.Role))
	}
	q := `SELECT ` + userColumns + ` FROM users` + qb.clause() +
		` ORDER BY created_at DESC LIMIT ` + qb.next(f.PageSize) + ` OFFSET ` + qb.next(f.Offset())

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, u ports.UserUpdate) (*domain.User, error) {
	const op = "postgres.UserRepository.Update"

	var set assignments
	if u.Email != nil {
		set.set("email", *u.Email)
	}
	if u.Username != nil {
		set.set("username", *u.Username)
	}
	if u.HashedPassword != nil {
		set.set("hashed_password", *u.HashedPassword)
	}
	if u.Role != nil {
		set.set("role", string(*u.Role))
	}
	if len(set.cols) == 0 {
		return r.FindByID(ctx, id)
	}

	q := `UPDATE users SET ` + set.String() + ` WHERE id = ` + set.idArg(id) + ` RETURNING ` + userColumns

	var row userRow
	if err := r.db.QueryRowxContext(ctx, q, set.args...).StructScan(&row); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", op, domain.ErrUserNotFound)
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	const op = "postgres.UserRepository.Delete"
	const q = `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	var row userRow
	if err := r.db.QueryRowxContext(ctx, q, id).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}
