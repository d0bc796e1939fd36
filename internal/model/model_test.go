package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	uaIPhone        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  User@X.com ", "password123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "user@x.com", u.Email)
	assert.True(t, u.Active)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, u.CheckPassword("password123"))
	assert.False(t, u.CheckPassword("password1234"))
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNewUserEmptyPassword(t *testing.T) {
	_, err := NewUser("a@b.c", "", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestUserRoles(t *testing.T) {
	u := User{Roles: []Role{{Name: RoleUser}, {Name: "editor"}}}
	assert.Equal(t, []string{"user", "editor"}, u.RoleNames())
	assert.True(t, u.HasRole("editor"))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.Equal(t, []string{}, User{}.RoleNames())
}

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want DeviceType
	}{
		{"desktop chrome", uaChromeWindows, DevicePC},
		{"ipad", uaIPad, DeviceTablet},
		{"iphone", uaIPhone, DeviceMobile},
		{"empty", "", DeviceOther},
		{"garbage", "???", DeviceOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDevice(tt.ua))
		})
	}
}

func TestNewSession(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	s := NewSession("u-1", uaChromeWindows, at)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, time.UTC, s.EventDate.Location())
	assert.True(t, at.Equal(s.EventDate))
	assert.Equal(t, DevicePC, s.DeviceType)
}
