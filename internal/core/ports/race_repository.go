package ports

import (
	"context"
	"time"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// RaceFilter carries all query parameters for listing races.
// StartTime, when set, takes precedence over the StartFrom/StartTo range.
type RaceFilter struct {
	Type         domain.RaceType // optional
	Championship string          // optional, exact match
	StartTime    *time.Time      // optional, exact match
	StartFrom    *time.Time      // optional, inclusive
	StartTo      *time.Time      // optional, inclusive
	Page         int             // 1-based
	PageSize     int
}

// Offset is the number of rows skipped before the page starts.
func (f RaceFilter) Offset() int { return offset(f.Page, f.PageSize) }

// RaceUpdate lists the fields to change; nil fields are left untouched.
type RaceUpdate struct {
	Title         *string
	Championship  *string
	Type          *domain.RaceType
	Location      *string
	RaceStartTime *time.Time
}

// Empty reports whether the update changes nothing.
func (u RaceUpdate) Empty() bool {
	return u.Title == nil && u.Championship == nil && u.Type == nil && u.Location == nil && u.RaceStartTime == nil
}

// RaceRepository defines persistence operations for races.
type RaceRepository interface {
	Create(ctx context.Context, race *domain.Race) error
	FindByID(ctx context.Context, id string) (*domain.Race, error)
	List(ctx context.Context, filter RaceFilter) ([]*domain.Race, error)
	Update(ctx context.Context, id string, update RaceUpdate) (*domain.Race, error)
	Delete(ctx context.Context, id string) (*domain.Race, error)
}
