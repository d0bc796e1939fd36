package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/revocation"
	"github.com/iliyamo/auth-service/internal/utils"
)

// TokenPair is returned by every login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserLoader reloads a user with its current roles.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (model.User, error)
}

// TokenConfig holds the signing key and lifetimes.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService signs, verifies, refreshes and revokes JWTs.  The two
// tokens of a pair share a session id (sid) so revoking the pair on logout
// takes one denylist entry for the refresh side.
type TokenService struct {
	cfg     TokenConfig
	revoked revocation.Cache
	users   UserLoader
	now     func() time.Time
}

func NewTokenService(cfg TokenConfig, revoked revocation.Cache, users UserLoader) *TokenService {
	return &TokenService{cfg: cfg, revoked: revoked, users: users, now: time.Now}
}

// IssuePair mints an access and a refresh token for u.  Role claims are a
// snapshot of u.Roles; later grants show up only after a refresh.
func (s *TokenService) IssuePair(u model.User) (TokenPair, error) {
	now := s.now()
	sid := uuid.NewString()
	base := utils.TokenSpec{
		Subject:   u.Email,
		UserID:    u.ID,
		SessionID: sid,
		Roles:     u.RoleNames(),
		IssuedAt:  now,
	}

	access := base
	access.Kind, access.TTL = utils.KindAccess, s.cfg.AccessTTL
	at, err := utils.NewToken(s.cfg.Secret, access)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := base
	refresh.Kind, refresh.TTL = utils.KindRefresh, s.cfg.RefreshTTL
	rt, err := utils.NewToken(s.cfg.Secret, refresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: at.Token, RefreshToken: rt.Token}, nil
}

// Verify checks signature, expiry, kind and the denylist.  An empty raw
// token yields ErrUnauthorized; everything else wrong yields
// ErrInvalidToken.  Denylist lookup failures are returned unwrapped.
func (s *TokenService) Verify(ctx context.Context, raw string, kind utils.TokenKind) (*utils.Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	claims, err := utils.ParseToken(s.cfg.Secret, raw, s.now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, kind)
	}
	for _, id := range []string{claims.ID, claims.SessionID} {
		revoked, err := s.revoked.Contains(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token has been revoked", ErrInvalidToken)
		}
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair carrying the user's
// current roles.  The presented refresh token is single use.
func (s *TokenService) Refresh(ctx context.Context, rawRefresh string) (TokenPair, error) {
	claims, err := s.Verify(ctx, rawRefresh, utils.KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, ErrNotFound) {
		return TokenPair{}, fmt.Errorf("%w: subject no longer exists", ErrInvalidToken)
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !u.Active {
		return TokenPair{}, fmt.Errorf("%w: account disabled", ErrUnauthorized)
	}
	claimed, err := s.revoked.Claim(ctx, claims.ID, s.remaining(claims.ExpiresAt.Time))
	if err != nil {
		return TokenPair{}, fmt.Errorf("revoke used refresh token: %w", err)
	}
	if !claimed {
		return TokenPair{}, fmt.Errorf("%w: refresh token already used", ErrInvalidToken)
	}
	return s.IssuePair(u)
}

// Revoke denylists the access token described by claims for the rest of
// its life, and its pair's session id until the paired refresh token
// would have expired.
func (s *TokenService) Revoke(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return fmt.Errorf("%w: no claims to revoke", ErrInvalidToken)
	}
	if err := s.revoked.Put(ctx, claims.ID, s.remaining(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if claims.SessionID == "" || claims.IssuedAt == nil {
		return nil
	}
	refreshExp := claims.IssuedAt.Time.Add(s.cfg.RefreshTTL)
	if err := s.revoked.Put(ctx, claims.SessionID, s.remaining(refreshExp)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *TokenService) remaining(exp time.Time) time.Duration {
	return exp.Sub(s.now())
}
