// Package policy decides whether a caller may perform an action on a user
// profile. Every auth gate delegates its role and ownership checks here.
package policy

import "github.com/eventvault/racing-api/internal/core/domain"

// Action is a protected operation.
type Action string

const (
	ListUsers  Action = "users:list"
	ChangeRole Action = "users:change_role"
	ViewUser   Action = "users:view"
	DeleteUser Action = "users:delete"
)

// Subject is the authenticated caller.
type Subject struct {
	ID   string
	Role domain.Role
}

// Evaluator returns nil when subject may perform action on targetID, or a
// domain.KindForbidden error otherwise. targetID is empty for actions that
// do not address a single profile.
type Evaluator interface {
	Evaluate(subject Subject, action Action, targetID string) error
}

// RolePolicy is the default rule set: admins may do everything, users may
// view and delete their own profile only.
type RolePolicy struct{}

func New() RolePolicy { return RolePolicy{} }

var denials = map[Action]string{
	ListUsers:  "unauthorized, no access to this resource",
	ChangeRole: "role change not allowed for the logged in user",
	ViewUser:   "only admins can view profiles of other users on this level",
	DeleteUser: "unauthorized: admins can delete other users profiles only",
}

func (RolePolicy) Evaluate(subject Subject, action Action, targetID string) error {
	if subject.Role == domain.RoleAdmin {
		return nil
	}

	switch action {
	case ViewUser, DeleteUser:
		if targetID == "" || targetID == subject.ID {
			return nil
		}
	}

	msg, ok := denials[action]
	if !ok {
		msg = "unauthorized, no access to this resource"
	}
	return domain.Forbidden(msg)
}
