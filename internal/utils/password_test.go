package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "password124"))
	assert.False(t, VerifyPassword("not-a-hash", "password123"))
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(32, "ab")
	require.NoError(t, err)
	assert.Len(t, s, 32)
	assert.Empty(t, strings.Trim(s, "ab"))

	_, err = RandomString(0, "ab")
	assert.Error(t, err)
	_, err = RandomString(4, "")
	assert.Error(t, err)
}

func TestRandomEmailAndPassword(t *testing.T) {
	a, err := RandomEmail()
	require.NoError(t, err)
	b, err := RandomEmail()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(a, "@yandex.com"))
	assert.Len(t, a, len("12345678@yandex.com"))
	assert.NotEqual(t, a, b)

	p, err := RandomPassword()
	require.NoError(t, err)
	assert.Len(t, p, 16)
}
