package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAttendee.Valid())
	assert.True(t, RoleOrganizer.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.Terminal())
	assert.True(t, BookingConfirmed.Terminal())
	assert.True(t, BookingFailed.Terminal())
}

func TestUserPasswordNeverMarshalled(t *testing.T) {
	u := User{ID: 1, Name: "Asha", Email: "asha@example.com", Password: "$2a$10$hash"}

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
	assert.Contains(t, string(out), `"user_id":1`)
}
