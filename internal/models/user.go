package models

// Role constants for personnel accounts. IsSuperuser overrides role checks everywhere.
const RoleAdmin = "ADMIN"
const RoleCommander = "COMMANDER"
const RoleLogistics = "LOGISTICS"

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCommander || role == RoleLogistics
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	BaseID       *int   `json:"base_id"`
	IsSuperuser  bool   `json:"is_superuser"`
}

// IsAdmin reports whether the user bypasses base scoping entirely.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}
