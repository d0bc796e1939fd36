package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/revocation"
)

type testEnv struct {
	store     *repository.Store
	creds     *CredentialStore
	roles     *RoleRegistry
	tokens    *TokenService
	sessions  *SessionRecorder
	auth      *AuthService
	publisher *recordingPublisher
	redis     *miniredis.Miniredis
}

type recordingPublisher struct {
	events []queue.LoginEvent
	err    error
}

func (p *recordingPublisher) PublishLogin(_ context.Context, ev queue.LoginEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	store := repository.NewStore(db, database.SQLite)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	creds, err := NewCredentialStore(store, bcrypt.MinCost)
	require.NoError(t, err)
	tokens := NewTokenService(TokenConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
	}, revocation.NewRedisCache(rdb, "revoked:"), creds)
	sessions := NewSessionRecorder(store)
	pub := &recordingPublisher{}

	return &testEnv{
		store:    store,
		creds:    creds,
		roles:    NewRoleRegistry(store),
		tokens:   tokens,
		sessions: sessions,
		auth: &AuthService{
			Credentials: creds,
			Tokens:      tokens,
			Sessions:    sessions,
			Publisher:   pub,
			Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		publisher: pub,
		redis:     mr,
	}
}

var errBroker = errors.New("broker down")
