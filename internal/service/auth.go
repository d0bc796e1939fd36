package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/queue"
)

// MethodPassword marks a login made with email and password.
const MethodPassword = "password"

// AuthService ties the login flow together: verify credentials, record
// the session, mint tokens and announce the login.
type AuthService struct {
	Credentials *CredentialStore
	Tokens      *TokenService
	Sessions    *SessionRecorder
	Publisher   LoginPublisher
	Logger      *slog.Logger
}

// Login authenticates email/password and returns a fresh token pair.
func (a *AuthService) Login(ctx context.Context, email, password, userAgent string) (TokenPair, error) {
	u, err := a.Credentials.Authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}
	return a.LoginUser(ctx, u, MethodPassword, userAgent)
}

// LoginUser records a login of an already identified user and issues
// tokens for it.
func (a *AuthService) LoginUser(ctx context.Context, u model.User, method, userAgent string) (TokenPair, error) {
	s, err := a.Sessions.Record(ctx, u.ID, userAgent)
	if err != nil {
		return TokenPair{}, err
	}
	pair, err := a.Tokens.IssuePair(u)
	if err != nil {
		return TokenPair{}, err
	}

	ev := queue.LoginEvent{
		UserID:     u.ID,
		Email:      u.Email,
		Method:     method,
		DeviceType: string(s.DeviceType),
		UserAgent:  s.UserAgent,
		LoggedInAt: s.EventDate.Format(time.RFC3339),
	}
	// a broker outage must never fail the login
	if err := a.Publisher.PublishLogin(ctx, ev); err != nil {
		a.Logger.Warn("login event not published", "user_id", u.ID, "err", err)
	}
	return pair, nil
}
