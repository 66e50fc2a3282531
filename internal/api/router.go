package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eventvault/racing-api/docs"
	"github.com/eventvault/racing-api/internal/api/handler"
	"github.com/eventvault/racing-api/internal/api/middleware"
	"github.com/eventvault/racing-api/internal/api/session"
	"github.com/eventvault/racing-api/internal/core/policy"
	"github.com/eventvault/racing-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers and gates.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Races    ports.RaceService
	Sessions *session.Manager
	Policy   policy.Evaluator
	// Health lists the dependencies pinged by the readiness probe.
	Health map[string]handler.Pinger

	Log        zerolog.Logger
	Production bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	if d.Policy == nil {
		d.Policy = policy.New()
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "racing",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	gates := middleware.NewGates(d.Sessions, d.Users, d.Policy, d.Log)
	healthHandler := handler.NewHealthHandler(d.Health, d.Log)
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions)
	raceHandler := handler.NewRaceHandler(d.Races)
	userHandler := handler.NewUserHandler(d.Users)

	// --- Operational routes ---
	e.GET("/", healthHandler.Welcome)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	v1.GET("/health-check", healthHandler.Liveness)
	v1.GET("/health-check/ready", healthHandler.Readiness)

	// --- Racing (public) ---
	racing := v1.Group("/racing")
	racing.GET("", raceHandler.List)
	racing.POST("/new", raceHandler.Create)
	racing.PUT("/put/:id", raceHandler.Update)
	racing.PATCH("/patch/:id", raceHandler.Update)
	racing.GET("/:id", raceHandler.Get)
	racing.DELETE("/:id", raceHandler.Delete)

	// --- Users ---
	users := v1.Group("/users")
	users.POST("/auth/register", authHandler.Register)
	users.POST("/auth/login", authHandler.Login)
	users.GET("/auth/logout", authHandler.Logout)

	authn := gates.Authenticate()
	users.GET("", userHandler.List, authn, gates.Authorize())
	users.PUT("/put/:id", userHandler.Update, authn, gates.CanElevate())
	users.PATCH("/patch/:id", userHandler.Update, authn, gates.CanElevate())
	users.GET("/:id", userHandler.Get, authn, gates.CanView())
	users.DELETE("/:id", userHandler.Delete, authn, gates.CanDelete())

	return e
}
