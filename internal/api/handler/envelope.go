package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/core/domain"
)

// envelope is the success response shape shared by all handlers.
type envelope struct {
	Success bool   `json:"success" example:"true"`
	Status  int    `json:"status" example:"200"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	User    any    `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

func respondData(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Success: true, Status: status, Message: msg, Data: data})
}

// respondUsers sends a list of users under the user key, hashes stripped.
func respondUsers(c echo.Context, status int, msg string, users []*domain.User) error {
	return c.JSON(status, envelope{
		Success: true,
		Status:  status,
		Message: msg,
		User:    domain.ExcludePasswords(users),
	})
}

func respondUser(c echo.Context, status int, msg string, user *domain.User, token string) error {
	return c.JSON(status, envelope{
		Success: true,
		Status:  status,
		Message: msg,
		User:    domain.ExcludePassword(user),
		Token:   token,
	})
}

// bind decodes the request into dst and validates it. Failures are
// BadRequest.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.Wrap(domain.KindBadRequest, "bad request: invalid payload", err)
	}
	if err := c.Validate(dst); err != nil {
		return domain.Wrap(domain.KindBadRequest, "bad request: "+err.Error(), err)
	}
	return nil
}
