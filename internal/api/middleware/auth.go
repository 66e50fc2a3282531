package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/api/metrics"
	"github.com/eventvault/racing-api/internal/core/domain"
)

// payloadKey is the echo context key holding the verified *domain.TokenPayload.
const payloadKey = "session.payload"

// Payload returns the token payload stored by Authenticate, or nil.
func Payload(c echo.Context) *domain.TokenPayload {
	p, _ := c.Get(payloadKey).(*domain.TokenPayload)
	return p
}

// Authenticate requires a valid session cookie. Any failure is reported as
// "not authenticated" regardless of its cause.
func (g *Gates) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload, err := g.sessions.Extract(c)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues("authenticate", "deny").Inc()
				g.log.Debug().Err(err).Str("path", c.Path()).Msg("authentication failed")
				return domain.Wrap(domain.KindUnauthorized, "not authenticated", err)
			}

			metrics.GateDecisionsTotal.WithLabelValues("authenticate", "allow").Inc()
			c.Set(payloadKey, payload)
			return next(c)
		}
	}
}
