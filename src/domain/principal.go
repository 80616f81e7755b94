package domain

import (
	"fmt"
	"strings"
)

// Role is the access level granted to a user.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
)

// Key returns the authority name stored with the user ("ROLE_USER").
func (r Role) Key() string {
	return "ROLE_" + string(r)
}

func (r Role) Title() string {
	switch r {
	case RoleGuest:
		return "손님"
	case RoleUser:
		return "일반 사용자"
	}
	return string(r)
}

// ParseRole accepts both "USER" and "ROLE_USER".
func ParseRole(s string) (Role, error) {
	role := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	switch role {
	case RoleGuest, RoleUser:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
}

// Principal is the authenticated identity bound to a request.
type Principal struct {
	UserID  int64
	Name    string
	Email   string
	Picture string
	Role    Role
}

func (p *Principal) HasRole(role Role) bool {
	return p != nil && p.Role == role
}
