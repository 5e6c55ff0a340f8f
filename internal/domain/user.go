package domain

import "time"

// Role governs endpoint authorization.
type Role string

// User roles.
const (
	RoleStudent Role = "STUDENT"
	RoleTutor   Role = "TUTOR"
	RoleAdmin   Role = "ADMIN"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Role is immutable after creation.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	IsBanned      bool      `json:"isBanned"`
	BanReason     *string   `json:"banReason"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublicUser is the projection of a user safe to return from admin mutations.
type PublicUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	IsBanned  bool    `json:"isBanned"`
	BanReason *string `json:"banReason"`
}

// Public returns the public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsBanned:  u.IsBanned,
		BanReason: u.BanReason,
	}
}

// UserRef is the minimal identity attached to related records.
type UserRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image,omitempty"`
}

// Identity is the authenticated caller resolved by the access control gate.
// It is passed explicitly into handlers and services, never read from
// ambient state past the middleware boundary.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

// RefreshToken is a persisted refresh token record.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
