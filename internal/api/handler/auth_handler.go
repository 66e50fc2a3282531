package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/api/metrics"
	"github.com/eventvault/racing-api/internal/api/session"
	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService ports.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Register creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      500   {object}  ErrorEnvelope  "email already registered, or store failure"
// @Router       /users/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.sessions.Attach(c, token)
	return respondUser(c, http.StatusOK, "user registered", user, token)
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Router       /users/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.sessions.Attach(c, token)
	return respondUser(c, http.StatusOK, "user logged in", user, token)
}

// Logout clears the session cookie. It needs no session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /users/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return respondData(c, http.StatusOK, "user logged out", nil)
}

func registrationResult(err error) string {
	switch {
	case domain.IsKind(err, domain.KindConflict):
		return "conflict"
	case domain.IsKind(err, domain.KindBadRequest):
		return "invalid"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case domain.IsKind(err, domain.KindUnauthorized):
		return "invalid_credentials"
	case domain.IsKind(err, domain.KindBadRequest):
		return "invalid"
	default:
		return "error"
	}
}
