package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestUser_PublicOmitsCredentials(t *testing.T) {
	reason := "spam"
	user := User{
		ID:           "user-1",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$2a$10$secret",
		Role:         RoleStudent,
		IsBanned:     true,
		BanReason:    &reason,
	}

	public := user.Public()

	assert.Equal(t, PublicUser{
		ID:        "user-1",
		Email:     "alice@example.com",
		Name:      "Alice",
		Role:      RoleStudent,
		IsBanned:  true,
		BanReason: &reason,
	}, public)
}
