package domain

import "fmt"

// Role of the authenticated user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole validates a role string
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if r != RoleAdmin && r != RoleCustomer {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Session is the capability-scoped identity passed explicitly to use cases
type Session struct {
	UserID string
	Role   Role
	Name   string
	Phone  string
}

// IsAdmin returns true for the shop owner
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsAuthenticated returns true if the session carries an identity
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}
