package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// TokenKind distinguishes access tokens from refresh tokens.  The kind is
// carried in the "typ" claim so a refresh token can never be presented as
// an access token and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the claim set carried by every token this service signs.
// Subject holds the user's email, ID holds the token identifier (jti)
// and SessionID ties an access token to the refresh token minted with it.
type Claims struct {
	Roles     []string  `json:"roles"`
	UserID    string    `json:"user_id"`
	Kind      TokenKind `json:"typ"`
	SessionID string    `json:"sid"`
	jwt.RegisteredClaims
}

// TokenSpec describes a token to be signed.
type TokenSpec struct {
	Kind      TokenKind
	Subject   string
	UserID    string
	SessionID string
	Roles     []string
	IssuedAt  time.Time
	TTL       time.Duration
}

// SignedToken represents a signed JWT along with its identifier and expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.
type SignedToken struct {
	Token string    // the serialized JWT string
	JTI   string    // unique token identifier
	Exp   time.Time // the UTC expiration time
}

// NewToken builds and signs an HS256 JWT.  A fresh random jti is generated
// for every call, so two tokens issued in the same second for the same user
// are still distinguishable.
func NewToken(secret string, spec TokenSpec) (SignedToken, error) {
	if spec.Kind != KindAccess && spec.Kind != KindRefresh {
		return SignedToken{}, fmt.Errorf("unknown token kind %q", spec.Kind)
	}
	issued := spec.IssuedAt.UTC()
	// Calculate the expiration time by adding the TTL to the issue time.
	exp := issued.Add(spec.TTL)
	roles := spec.Roles
	if roles == nil {
		roles = []string{}
	}
	jti := uuid.NewString()
	claims := Claims{
		Roles:     roles,
		UserID:    spec.UserID,
		Kind:      spec.Kind,
		SessionID: spec.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   spec.Subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	// Create a new token object specifying the signing method (HS256) and
	// include the claims, then sign it with the shared secret.
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// ParseToken verifies the signature and the time based claims of raw and
// returns its claims.  now is used as the clock for exp/nbf checks.
func ParseToken(secret, raw string, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("token is missing jti or sub")
	}
	return claims, nil
}
