package domain

import "time"

// Role classifies an account for authorization purposes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the directory record backing an authenticated identity.
type User struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	AvatarURL *string
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserSummary is the denormalized profile shape embedded in tickets and
// comments for display.
type UserSummary struct {
	ID        string
	FullName  string
	Email     string
	AvatarURL *string
}

// Summary projects the user into its embeddable form.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
