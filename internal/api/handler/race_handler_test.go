package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

type stubRaceService struct {
	listIn   ports.ListRacesInput
	createIn ports.CreateRaceInput
	updateIn ports.UpdateRaceInput
	races    []*domain.Race
	err      error
}

func (s *stubRaceService) List(_ context.Context, in ports.ListRacesInput) ([]*domain.Race, error) {
	s.listIn = in
	return s.races, s.err
}

func (s *stubRaceService) Get(_ context.Context, id string) (*domain.Race, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Race{ID: id}, nil
}

func (s *stubRaceService) Create(_ context.Context, in ports.CreateRaceInput) (*domain.Race, error) {
	s.createIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Race{ID: "new", Title: in.Title, Type: domain.RaceType(in.Type)}, nil
}

func (s *stubRaceService) Update(_ context.Context, id string, in ports.UpdateRaceInput) (*domain.Race, error) {
	s.updateIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Race{ID: id}, nil
}

func (s *stubRaceService) Delete(_ context.Context, id string) (*domain.Race, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Race{ID: id}, nil
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestRaceHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubRaceService{}
	h := NewRaceHandler(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/racing?type=sprint&championship=F1&page=2&pageSize=5&raceStartFrom=2024-01-01", nil)
	require.NoError(t, h.List(e.NewContext(req, rec)))

	assert.Equal(t, ports.ListRacesInput{
		Type: "sprint", Championship: "F1", RaceStartFrom: "2024-01-01", Page: "2", PageSize: "5",
	}, stub.listIn)

	resp := decode(t, rec)
	assert.Equal(t, "list of races matching filter", resp["message"])
	assert.Equal(t, []any{}, resp["data"], "empty result should encode as []")
}

func TestRaceHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubRaceService{}
	h := NewRaceHandler(stub)

	rec := httptest.NewRecorder()
	body := `{"title":"Spa 24h","championship":"WEC","type":"ENDURANCE","location":"Spa","raceStartTime":"2024-06-29"}`
	require.NoError(t, h.Create(e.NewContext(jsonRequest(http.MethodPost, "/racing/new", body), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-29", stub.createIn.RaceStartTime)
	resp := decode(t, rec)
	assert.Equal(t, "created race", resp["message"])
	assert.Equal(t, float64(200), resp["status"])
}

func TestRaceHandler_Update(t *testing.T) {
	e := newEcho()
	stub := &stubRaceService{}
	h := NewRaceHandler(stub)

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPatch, "/", `{"location":"Monza"}`), rec), "r1")
	require.NoError(t, h.Update(c))

	require.NotNil(t, stub.updateIn.Location)
	assert.Equal(t, "Monza", *stub.updateIn.Location)
	assert.Nil(t, stub.updateIn.Title)
	assert.Equal(t, "updated race", decode(t, rec)["message"])
}

func TestRaceHandler_Update_MissingID(t *testing.T) {
	h := NewRaceHandler(&stubRaceService{})
	c := newEcho().NewContext(jsonRequest(http.MethodPut, "/", `{"title":"x"}`), httptest.NewRecorder())

	err := h.Update(c)
	assert.True(t, domain.IsKind(err, domain.KindBadRequest), "got %v", err)
}

func TestRaceHandler_PropagatesServiceErrors(t *testing.T) {
	e := newEcho()
	h := NewRaceHandler(&stubRaceService{err: domain.NotFound("race not found")})

	err := h.Get(withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), "x"))
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	err = h.Delete(withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder()), "x"))
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
