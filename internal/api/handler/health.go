package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the welcome route and the liveness and readiness probes.
type HealthHandler struct {
	started time.Time
	deps    map[string]Pinger
	log     zerolog.Logger
	now     func() time.Time
}

// NewHealthHandler returns a HealthHandler checking deps on readiness.
func NewHealthHandler(deps map[string]Pinger, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{started: time.Now(), deps: deps, log: log, now: time.Now}
}

// Welcome godoc
//
// @Summary  Welcome
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "welcome to event vault"})
}

type livenessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    int64  `json:"uptime"`
}

// Liveness reports that the process is up and for how long.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  livenessResponse
// @Router   /health-check [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	resp := livenessResponse{
		Success:   true,
		Message:   "server running",
		Timestamp: h.now().UTC().Format(time.RFC1123),
		Uptime:    int64(h.now().Sub(h.started).Seconds()),
	}
	h.log.Info().Str("timestamp", resp.Timestamp).Int64("uptime", resp.Uptime).Msg(resp.Message)
	return c.JSON(http.StatusOK, resp)
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency and answers 503 if any is down.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health-check/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			h.log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "degraded", Dependencies: deps})
	}
	return c.JSON(http.StatusOK, readinessResponse{Status: "ok", Dependencies: deps})
}
