package models

import "fmt"

// Role is the access level of a user account.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// DefaultRole is assigned on registration and whenever no role is stored.
const DefaultRole = RoleStudent

var ErrUnknownRole = fmt.Errorf("unknown role")

// ParseRole accepts exactly one of the known roles, byte for byte. "Admin"
// or " admin " are not roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
