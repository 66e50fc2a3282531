package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/api/metrics"
	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

type RaceHandler struct {
	raceService ports.RaceService
}

func NewRaceHandler(raceService ports.RaceService) *RaceHandler {
	return &RaceHandler{raceService: raceService}
}

// List returns races matching the query filters.
//
// @Summary      List races
// @Tags         racing
// @Produce      json
// @Param        type           query     string  false  "Race type (case-insensitive)"
// @Param        championship   query     string  false  "Championship (exact match)"
// @Param        raceStartTime  query     string  false  "Exact start time; overrides the range"
// @Param        raceStartFrom  query     string  false  "Range start, inclusive"
// @Param        raceStartTo    query     string  false  "Range end, inclusive"
// @Param        page           query     int     false  "Page (default 1)"
// @Param        pageSize       query     int     false  "Page size (default 10, max 100)"
// @Success      200            {object}  envelope
// @Failure      500            {object}  ErrorEnvelope
// @Router       /racing [get]
func (h *RaceHandler) List(c echo.Context) error {
	races, err := h.raceService.List(c.Request().Context(), ports.ListRacesInput{
		Type:          c.QueryParam("type"),
		Championship:  c.QueryParam("championship"),
		RaceStartTime: c.QueryParam("raceStartTime"),
		RaceStartFrom: c.QueryParam("raceStartFrom"),
		RaceStartTo:   c.QueryParam("raceStartTo"),
		Page:          c.QueryParam("page"),
		PageSize:      c.QueryParam("pageSize"),
	})
	if err != nil {
		return err
	}

	metrics.RaceQueryResults.Observe(float64(len(races)))
	if races == nil {
		races = []*domain.Race{}
	}
	return respondData(c, http.StatusOK, "list of races matching filter", races)
}

// Get returns a single race.
//
// @Summary      Get race
// @Tags         racing
// @Produce      json
// @Param        id   path      string  true  "Race ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /racing/{id} [get]
func (h *RaceHandler) Get(c echo.Context) error {
	race, err := h.raceService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, "get race", race)
}

// Create adds a race.
//
// @Summary      Create race
// @Tags         racing
// @Accept       json
// @Produce      json
// @Param        body  body      createRaceRequest  true  "Race"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      500   {object}  ErrorEnvelope
// @Router       /racing/new [post]
func (h *RaceHandler) Create(c echo.Context) error {
	var req createRaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	race, err := h.raceService.Create(c.Request().Context(), ports.CreateRaceInput{
		Title:         req.Title,
		Championship:  req.Championship,
		Type:          req.Type,
		Location:      req.Location,
		RaceStartTime: req.RaceStartTime,
	})
	if err != nil {
		return err
	}

	metrics.RacesCreatedTotal.WithLabelValues(string(race.Type)).Inc()
	return respondData(c, http.StatusOK, "created race", race)
}

// Update changes the supplied race fields.
//
// @Summary      Update race
// @Tags         racing
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Race ID"
// @Param        body  body      updateRaceRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /racing/put/{id} [put]
// @Router       /racing/patch/{id} [patch]
func (h *RaceHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.BadRequest("bad request: missing id")
	}

	var req updateRaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	race, err := h.raceService.Update(c.Request().Context(), id, ports.UpdateRaceInput{
		Title:         req.Title,
		Championship:  req.Championship,
		Type:          req.Type,
		Location:      req.Location,
		RaceStartTime: req.RaceStartTime,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, "updated race", race)
}

// Delete removes a race.
//
// @Summary      Delete race
// @Tags         racing
// @Produce      json
// @Param        id   path      string  true  "Race ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /racing/{id} [delete]
func (h *RaceHandler) Delete(c echo.Context) error {
	race, err := h.raceService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, "deleted race", race)
}
