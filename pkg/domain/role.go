package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a role string names neither a student nor a warden.
var ErrUnknownRole = errors.New("unknown role")

// Role scopes which dashboard and views a session may reach.
type Role string

const (
	// RoleNone marks a view that any signed-in user may open.
	RoleNone    Role = ""
	RoleStudent Role = "student"
	RoleWarden  Role = "warden"
)

// ParseRole maps a backend userType ("Student", "warden", ...) onto a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, nil
	case "warden":
		return RoleWarden, nil
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether r is one of the two concrete roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleWarden
}

// UserType returns the capitalised form the backend uses in tokens and payloads.
func (r Role) UserType() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleWarden:
		return "Warden"
	}
	return ""
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}
