package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Anything outside the set fails
// ParseRole, so an unrecognized role can never slip through a guard.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleHR:
		return RoleHR, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// Elevated reports whether the role may act on other employees' records.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleHR
}

func (r Role) Admin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
