package models

// RoleName is one of a small closed set of role names.
type RoleName string

const (
	RoleAdmin RoleName = "admin"
	RoleUser  RoleName = "user"
)

// DefaultRole is assigned to every new account.
const DefaultRole = RoleUser

// Role is static reference data seeded by migrations.
type Role struct {
	ID   int64
	Name RoleName
}

// ParseRoleName maps a stored role name onto the closed set.
// Unknown names report false.
func ParseRoleName(s string) (RoleName, bool) {
	switch RoleName(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}
