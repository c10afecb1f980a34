package domain

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// ParseRole defaults to viewer when s is empty.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleViewer, nil
	case RoleAdmin, RoleAnalyst, RoleViewer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Subject is the casbin role name.
func (r Role) Subject() string {
	return "role:" + string(r)
}
