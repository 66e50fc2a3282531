// Package session carries the session token in an HTTP cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

// Manager attaches, clears and extracts the session cookie.
type Manager struct {
	tokens ports.TokenService
	name   string
	ttl    time.Duration
	secure bool
}

// NewManager returns a Manager for the cookie named name. secure sets the
// Secure attribute and should be on in production.
func NewManager(tokens ports.TokenService, name string, ttl time.Duration, secure bool) *Manager {
	return &Manager{tokens: tokens, name: name, ttl: ttl, secure: secure}
}

// Name is the cookie name.
func (m *Manager) Name() string { return m.name }

// Attach sets token as the session cookie.
func (m *Manager) Attach(c echo.Context, token string) {
	c.SetCookie(m.cookie(token, int(m.ttl.Seconds()), time.Now().Add(m.ttl)))
}

// Clear expires the session cookie with the attributes it was set with.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(m.cookie("", -1, time.Unix(0, 0)))
}

// Extract reads and verifies the session cookie. A missing cookie is
// Unauthorized; verification errors are returned as produced.
func (m *Manager) Extract(c echo.Context) (*domain.TokenPayload, error) {
	ck, err := c.Cookie(m.name)
	if err != nil || ck.Value == "" {
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			return nil, err
		}
		return nil, domain.Unauthorized("No token found")
	}
	return m.tokens.Verify(ck.Value)
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
