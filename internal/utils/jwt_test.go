package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestNewTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewToken(testSecret, TokenSpec{
		Kind:      KindAccess,
		Subject:   "user@x.com",
		UserID:    "u-1",
		SessionID: "s-1",
		Roles:     []string{"user", "admin"},
		IssuedAt:  now,
		TTL:       time.Hour,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.JTI)
	assert.WithinDuration(t, now.Add(time.Hour), tok.Exp, time.Second)

	claims, err := ParseToken(testSecret, tok.Token, time.Now)
	require.NoError(t, err)
	assert.Equal(t, "user@x.com", claims.Subject)
	assert.Equal(t, tok.JTI, claims.ID)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
}

func TestNewTokenUniqueJTI(t *testing.T) {
	spec := TokenSpec{Kind: KindRefresh, Subject: "a@b.c", IssuedAt: time.Now(), TTL: time.Minute}
	a, err := NewToken(testSecret, spec)
	require.NoError(t, err)
	b, err := NewToken(testSecret, spec)
	require.NoError(t, err)
	assert.NotEqual(t, a.JTI, b.JTI)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestNewTokenUnknownKind(t *testing.T) {
	_, err := NewToken(testSecret, TokenSpec{Kind: "id", Subject: "a@b.c", IssuedAt: time.Now(), TTL: time.Minute})
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	issued := time.Now()
	tok, err := NewToken(testSecret, TokenSpec{Kind: KindAccess, Subject: "a@b.c", IssuedAt: issued, TTL: time.Minute})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseToken("other", tok.Token, time.Now)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})
	t.Run("expired", func(t *testing.T) {
		later := func() time.Time { return issued.Add(2 * time.Minute) }
		_, err := ParseToken(testSecret, tok.Token, later)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken(testSecret, "not.a.jwt", time.Now)
		assert.Error(t, err)
	})
	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a@b.c", "jti": "x", "exp": time.Now().Add(time.Hour).Unix()})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ParseToken(testSecret, raw, time.Now)
		assert.Error(t, err)
	})
}
