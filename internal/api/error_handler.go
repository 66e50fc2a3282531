package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventvault/racing-api/internal/api/handler"
	"github.com/eventvault/racing-api/internal/core/domain"
)

const genericMessage = "something went wrong"

// NewHTTPErrorHandler returns the single place failures are written:
//   - *domain.Error renders with its own status and message.
//   - *echo.HTTPError (unknown route, bind failure, ...) keeps its code.
//   - anything else is a 500 carrying the error text.
//
// Stacks are included outside production only.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg, stack := resolveError(err)

		ev := log.Error()
		if status < http.StatusInternalServerError {
			ev = log.Warn()
		}
		if e, ok := domain.AsError(err); ok {
			ev = ev.Str("kind", e.Kind.String()).Bool("operational", e.Operational)
		}
		ev.Stack().
			Err(err).
			Int("status", status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg(msg)

		resp := handler.ErrorEnvelope{Success: false, StatusCode: status, Message: msg}
		if !production {
			resp.Err = stack
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}

func resolveError(err error) (status int, msg, stack string) {
	if e, ok := domain.AsError(err); ok {
		return e.Status, e.Message, e.Stack()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Internal != nil {
			return he.Code, msg, he.Internal.Error()
		}
		return he.Code, msg, ""
	}

	if err == nil || err.Error() == "" {
		return http.StatusInternalServerError, genericMessage, ""
	}
	return http.StatusInternalServerError, err.Error(), fmt.Sprintf("%+v", err)
}
