package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

type RaceService struct {
	repo   ports.RaceRepository
	logger zerolog.Logger
}

func NewRaceService(repo ports.RaceRepository, logger zerolog.Logger) *RaceService {
	return &RaceService{repo: repo, logger: logger}
}

// List builds a filter from raw query values. Unknown types and unparsable
// dates are ignored; an exact start time wins over the from/to range.
func (s *RaceService) List(ctx context.Context, in ports.ListRacesInput) ([]*domain.Race, error) {
	var filter ports.RaceFilter

	if t, ok := domain.ParseRaceType(in.Type); ok {
		filter.Type = t
	}
	filter.Championship = in.Championship

	if ts, ok := parseTime(in.RaceStartTime); ok {
		filter.StartTime = &ts
	} else {
		if from, ok := parseTime(in.RaceStartFrom); ok {
			filter.StartFrom = &from
		}
		if to, ok := parseTime(in.RaceStartTo); ok {
			filter.StartTo = &to
		}
	}

	filter.Page, filter.PageSize = pagination(in.Page, in.PageSize)

	races, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "something went wrong", err)
	}
	return races, nil
}

func (s *RaceService) Get(ctx context.Context, id string) (*domain.Race, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request: missing id")
	}

	race, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			return nil, domain.NotFound("race not found")
		}
		return nil, domain.Wrap(domain.KindInternal, "something went wrong", err)
	}
	return race, nil
}

func (s *RaceService) Create(ctx context.Context, in ports.CreateRaceInput) (*domain.Race, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Championship) == "" ||
		strings.TrimSpace(in.Location) == "" || in.Type == "" || strings.TrimSpace(in.RaceStartTime) == "" {
		return nil, domain.BadRequest("bad request: missing required fields - title, championship, type, location, raceStartTime")
	}

	raceType, ok := domain.ParseRaceType(in.Type)
	if !ok {
		return nil, domain.BadRequest("bad request: unknown race type " + in.Type)
	}
	start, ok := parseTime(in.RaceStartTime)
	if !ok {
		return nil, domain.BadRequest("bad request: invalid raceStartTime " + in.RaceStartTime)
	}

	now := time.Now().UTC()
	race := &domain.Race{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Championship:  strings.TrimSpace(in.Championship),
		Type:          raceType,
		Location:      strings.TrimSpace(in.Location),
		RaceStartTime: start,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, race); err != nil {
		s.logger.Error().Err(err).Msg("failed to create race")
		return nil, domain.Wrap(domain.KindInternal, "creation failed, try again", err)
	}

	s.logger.Info().Str("race_id", race.ID).Str("type", string(race.Type)).Msg("race created")
	return race, nil
}

func (s *RaceService) Update(ctx context.Context, id string, in ports.UpdateRaceInput) (*domain.Race, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request: missing id")
	}

	update := ports.RaceUpdate{
		Title:        trimmed(in.Title),
		Championship: trimmed(in.Championship),
		Location:     trimmed(in.Location),
	}
	if in.Type != nil {
		raceType, ok := domain.ParseRaceType(*in.Type)
		if !ok {
			return nil, domain.BadRequest("bad request: unknown race type " + *in.Type)
		}
		update.Type = &raceType
	}
	if in.RaceStartTime != nil {
		ts, ok := parseTime(*in.RaceStartTime)
		if !ok {
			return nil, domain.BadRequest("bad request: invalid raceStartTime " + *in.RaceStartTime)
		}
		update.RaceStartTime = &ts
	}
	if update.Empty() {
		return nil, domain.BadRequest("nothing to update")
	}

	race, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			return nil, domain.NotFound("race not found")
		}
		return nil, domain.Wrap(domain.KindInternal, "update failed", err)
	}
	return race, nil
}

func (s *RaceService) Delete(ctx context.Context, id string) (*domain.Race, error) {
	if id == "" {
		return nil, domain.BadRequest("bad request: missing id")
	}

	race, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRaceNotFound) {
			return nil, domain.NotFound("race not found")
		}
		return nil, domain.Wrap(domain.KindInternal, "deletion failed", err)
	}

	s.logger.Info().Str("race_id", id).Msg("race deleted")
	return race, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTime accepts RFC 3339 timestamps and plain dates (UTC).
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// trimmed returns nil for nil or blank values.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
