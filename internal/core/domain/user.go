package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

// ParseRole normalizes s to uppercase and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleUser, RoleAdmin:
		return r, true
	}
	return "", false
}

// User models an account. HashedPassword never leaves the service boundary:
// it is excluded from JSON and from PublicUser.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublicUser is the serialized shape of a user.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExcludePassword strips the password hash. A nil user yields nil.
func ExcludePassword(u *User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ExcludePasswords applies ExcludePassword to every element.
func ExcludePasswords(users []*User) []*PublicUser {
	out := make([]*PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, ExcludePassword(u))
	}
	return out
}
