package user

import "time"

type Role string

const (
	RoleUser  Role = "user"  // Sees own balance only
	RoleAdmin Role = "admin" // May view any employee and the user list
)

// User is one credential record, keyed by display name.
type User struct {
	Name         string
	PasswordHash string
	FirstLogin   bool
	Role         Role
	Title        string
	UpdatedAt    time.Time
}

// IsAdmin checks if user may act on behalf of others
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MustChangePassword checks if user still holds the initial password
func (u *User) MustChangePassword() bool {
	return u.FirstLogin
}

// ParseRole maps stored role text to a Role; anything unknown is a plain user.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
