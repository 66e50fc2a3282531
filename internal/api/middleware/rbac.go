package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventvault/racing-api/internal/api/metrics"
	"github.com/eventvault/racing-api/internal/api/session"
	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/policy"
)

// UserLookup resolves the caller of a request. A missing user is reported
// as domain.ErrUserNotFound.
type UserLookup interface {
	Lookup(ctx context.Context, id string) (*domain.User, error)
}

// Gates builds the auth gate chain. Each gate either calls next or returns
// an error for the error handler; none writes a response itself.
type Gates struct {
	sessions *session.Manager
	users    UserLookup
	policy   policy.Evaluator
	log      zerolog.Logger
}

func NewGates(sessions *session.Manager, users UserLookup, p policy.Evaluator, log zerolog.Logger) *Gates {
	return &Gates{sessions: sessions, users: users, policy: p, log: log}
}

// Authorize admits admins only.
func (g *Gates) Authorize() echo.MiddlewareFunc {
	return g.gate("authorize", policy.ListUsers, func(echo.Context) (string, bool, error) {
		return "", true, nil
	})
}

// CanElevate admits a request whose body changes a role only when the caller
// is an admin. Requests without a role field pass.
func (g *Gates) CanElevate() echo.MiddlewareFunc {
	return g.gate("can_elevate", policy.ChangeRole, func(c echo.Context) (string, bool, error) {
		changes, err := bodyHasRole(c)
		return c.Param("id"), changes, err
	})
}

// CanView admits admins, or callers viewing their own profile.
func (g *Gates) CanView() echo.MiddlewareFunc {
	return g.gate("can_view", policy.ViewUser, targetParam)
}

// CanDelete admits admins, or callers deleting their own profile.
func (g *Gates) CanDelete() echo.MiddlewareFunc {
	return g.gate("can_delete", policy.DeleteUser, targetParam)
}

func targetParam(c echo.Context) (string, bool, error) {
	return c.Param("id"), true, nil
}

// target extracts the profile addressed by the request and whether the
// gate applies to it at all.
type target func(c echo.Context) (id string, applies bool, err error)

func (g *Gates) gate(name string, action policy.Action, tgt target) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			targetID, applies, err := tgt(c)
			if err != nil {
				return err
			}
			if !applies {
				metrics.GateDecisionsTotal.WithLabelValues(name, "allow").Inc()
				return next(c)
			}

			subject, err := g.subject(c)
			if err != nil {
				result := "error"
				if domain.IsKind(err, domain.KindUnauthorized) {
					result = "deny"
				}
				metrics.GateDecisionsTotal.WithLabelValues(name, result).Inc()
				return err
			}

			if err := g.policy.Evaluate(subject, action, targetID); err != nil {
				metrics.GateDecisionsTotal.WithLabelValues(name, "deny").Inc()
				g.log.Info().
					Str("gate", name).
					Str("user_id", subject.ID).
					Str("target_id", targetID).
					Msg("access denied")
				return err
			}

			metrics.GateDecisionsTotal.WithLabelValues(name, "allow").Inc()
			return next(c)
		}
	}
}

// subject loads the caller from the payload stored by Authenticate, or from
// the cookie when the gate is used on its own.
func (g *Gates) subject(c echo.Context) (policy.Subject, error) {
	payload := Payload(c)
	if payload == nil {
		p, err := g.sessions.Extract(c)
		if err != nil {
			return policy.Subject{}, domain.Wrap(domain.KindUnauthorized, "not authenticated", err)
		}
		payload = p
	}

	user, err := g.users.Lookup(c.Request().Context(), payload.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return policy.Subject{}, domain.Wrap(domain.KindUnauthorized, "not authenticated", err)
		}
		return policy.Subject{}, domain.Wrap(domain.KindInternal, "something went wrong when authorizing", err)
	}
	return policy.Subject{ID: user.ID, Role: user.Role}, nil
}

// bodyHasRole reports whether the JSON body sets a role. The body is
// restored for the handler.
func bodyHasRole(c echo.Context) (bool, error) {
	req := c.Request()
	if req.Body == nil {
		return false, nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return false, domain.Wrap(domain.KindBadRequest, "bad request: unreadable body", err)
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}

	var body struct {
		Role *json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		// left for the handler's bind to reject
		return false, nil
	}
	return body.Role != nil, nil
}
