package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users, newest first. Admins only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role      query     string  false  "USER or ADMIN"
// @Param        page      query     int     false  "Page (default 1)"
// @Param        pageSize  query     int     false  "Page size (default 10, max 100)"
// @Success      200       {object}  envelope
// @Failure      400       {object}  ErrorEnvelope
// @Failure      401       {object}  ErrorEnvelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), ports.ListUsersInput{
		Role:     c.QueryParam("role"),
		Page:     c.QueryParam("page"),
		PageSize: c.QueryParam("pageSize"),
	})
	if err != nil {
		return err
	}
	return respondUsers(c, http.StatusOK, "list of users for an admin", users)
}

// Get returns a user profile. Users may only view their own.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respondUser(c, http.StatusOK, "user profile", user, "")
}

// Update changes the supplied profile fields. Role changes need an admin.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /users/put/{id} [put]
// @Router       /users/patch/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.BadRequest("bad request, invalid id parameter")
	}

	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return respondUser(c, http.StatusOK, "user updated", user, "")
}

// Delete removes a user. Users may only delete themselves.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.userService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respondUser(c, http.StatusOK, "user deleted", user, "")
}
