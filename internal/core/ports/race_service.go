package ports

import (
	"context"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// ListRacesInput carries the raw query string values of the listing endpoint.
type ListRacesInput struct {
	Type          string
	Championship  string
	RaceStartTime string
	RaceStartFrom string
	RaceStartTo   string
	Page          string
	PageSize      string
}

// CreateRaceInput carries a new race. RaceStartTime is RFC 3339 or YYYY-MM-DD.
type CreateRaceInput struct {
	Title         string
	Championship  string
	Type          string
	Location      string
	RaceStartTime string
}

// UpdateRaceInput carries the race fields a caller asked to change.
type UpdateRaceInput struct {
	Title         *string
	Championship  *string
	Type          *string
	Location      *string
	RaceStartTime *string
}

// RaceService defines use-case operations for races.
type RaceService interface {
	List(ctx context.Context, in ListRacesInput) ([]*domain.Race, error)
	Get(ctx context.Context, id string) (*domain.Race, error)
	Create(ctx context.Context, in CreateRaceInput) (*domain.Race, error)
	Update(ctx context.Context, id string, in UpdateRaceInput) (*domain.Race, error)
	Delete(ctx context.Context, id string) (*domain.Race, error)
}
