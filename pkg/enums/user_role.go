package enums

import "fmt"

// UserRole separates platform admins from villa residents.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleResident UserRole = "resident"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleResident,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
