package domain

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSuperadmin UserRole = "superadmin"
)

// User is a staff account. Guests never log in; the whole surface is
// operated by administrators.
type User struct {
	ID                  int64      `json:"id"`
	Username            string     `json:"username" validate:"required"`
	PasswordHash        string     `json:"-"`
	FirstName           string     `json:"first_name,omitempty"`
	LastName            string     `json:"last_name,omitempty"`
	Email               string     `json:"email,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Role                UserRole   `json:"role"`
	IsActive            bool       `json:"is_active"`
	LastSeen            time.Time  `json:"last_seen"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsOnline reports whether the user was active within the last five minutes.
func (u *User) IsOnline() bool {
	return u.LastSeen.After(time.Now().Add(-5 * time.Minute))
}
