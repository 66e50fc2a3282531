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

const raceColumns = "id, title, championship, type, location, race_start_time, created_at, updated_at"

type raceRow struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Championship  string    `db:"championship"`
	Type          string    `db:"type"`
	Location      string    `db:"location"`
	RaceStartTime time.Time `db:"race_start_time"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r raceRow) toDomain() *domain.Race {
	return &domain.Race{
		ID:            r.ID,
		Title:         r.Title,
		Championship:  r.Championship,
		Type:          domain.RaceType(r.Type),
		Location:      r.Location,
		RaceStartTime: r.RaceStartTime.UTC(),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

// RaceRepository stores races in the races table.
type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) Create(ctx context.Context, race *domain.Race) error {
	const op = "postgres.RaceRepository.Create"
	const q = `INSERT INTO races (` + raceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		race.ID, race.Title, race.Championship, string(race.Type), race.Location,
		race.RaceStartTime, race.CreatedAt, race.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RaceRepository) FindByID(ctx context.Context, id string) (*domain.Race, error) {
	const op = "postgres.RaceRepository.FindByID"
	const q = `SELECT ` + raceColumns + ` FROM races WHERE id = $1`

	var row raceRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}

// List applies the filter and returns one page ordered by start time.
func (r *RaceRepository) List(ctx context.Context, f ports.RaceFilter) ([]*domain.Race, error) {
	const op = "postgres.RaceRepository.List"

	var qb query
	if f.Type != "" {
		qb.where("type = ?", string(f.Type))
	}
	if f.Championship != "" {
		qb.where("championship = ?", f.Championship)
	}
	switch {
	case f.StartTime != nil:
		qb.where("race_start_time = ?", *f.StartTime)
	default:
		if f.StartFrom != nil {
			qb.where("race_start_time >= ?", *f.StartFrom)
		}
		if f.StartTo != nil {
			qb.where("race_start_time <= ?", *f.StartTo)
		}
	}

	q := `SELECT ` + raceColumns + ` FROM races` + qb.clause() +
		` ORDER BY race_start_time ASC, id ASC LIMIT ` + qb.next(f.PageSize) + ` OFFSET ` + qb.next(f.Offset())

	var rows []raceRow
	if err := r.db.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	races := make([]*domain.Race, 0, len(rows))
	for _, row := range rows {
		races = append(races, row.toDomain())
	}
	return races, nil
}

func (r *RaceRepository) Update(ctx context.Context, id string, u ports.RaceUpdate) (*domain.Race, error) {
	const op = "postgres.RaceRepository.Update"

	var set assignments
	if u.Title != nil {
		set.set("title", *u.Title)
	}
	if u.Championship != nil {
		set.set("championship", *u.Championship)
	}
	if u.Type != nil {
		set.set("type", string(*u.Type))
	}
	if u.Location != nil {
		set.set("location", *u.Location)
	}
	if u.RaceStartTime != nil {
		set.set("race_start_time", *u.RaceStartTime)
	}
	if len(set.cols) == 0 {
		return r.FindByID(ctx, id)
	}
	set.set("updated_at", time.Now().UTC())

	q := `UPDATE races SET ` + set.String() + ` WHERE id = ` + set.idArg(id) + ` RETURNING ` + raceColumns

	var row raceRow
	if err := r.db.QueryRowxContext(ctx, q, set.args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}

func (r *RaceRepository) Delete(ctx context.Context, id string) (*domain.Race, error) {
	const op = "postgres.RaceRepository.Delete"
	const q = `DELETE FROM races WHERE id = $1 RETURNING ` + raceColumns

	var row raceRow
	if err := r.db.QueryRowxContext(ctx, q, id).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), nil
}
