package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

func TestCredentialStore_CreateUserAssignsDefaultRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	u, err := env.creds.CreateUser(ctx, "user@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, u.RoleNames())

	stored, err := env.creds.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, stored.RoleNames())
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestCredentialStore_CreateUserExtraRoles(t *testing.T) {
	env := setupTestEnv(t)
	u, err := env.creds.CreateUser(context.Background(), "root@x.com", "password123", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.HasRole(model.RoleAdmin))
	assert.True(t, u.HasRole(model.RoleUser))
}

func TestCredentialStore_CreateUserConflict(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.creds.CreateUser(ctx, "dup@x.com", "password123")
	require.NoError(t, err)

	_, err = env.creds.CreateUser(ctx, "DUP@x.com", "password456")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCredentialStore_CreateUserRollsBackOnRoleFailure(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.store.DB.ExecContext(ctx, `CREATE TRIGGER reject_role BEFORE INSERT ON roles
		WHEN NEW.name = 'rejected'
		BEGIN SELECT RAISE(ABORT, 'role rejected'); END`)
	require.NoError(t, err)

	_, err = env.creds.CreateUser(ctx, "user@x.com", "password123", "rejected")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)

	// neither the user row nor the default role created before the failure survive
	_, err = env.store.Users.GetByEmail(ctx, "user@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	roles, err := env.roles.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, roles)

	u, err := env.creds.CreateUser(ctx, "user@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, u.RoleNames())
}

func TestCredentialStore_Authenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	created, err := env.creds.CreateUser(ctx, "user@x.com", "password123")
	require.NoError(t, err)

	u, err := env.creds.Authenticate(ctx, "user@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, wrongPassword := env.creds.Authenticate(ctx, "user@x.com", "password124")
	_, unknownEmail := env.creds.Authenticate(ctx, "ghost@x.com", "password123")
	require.ErrorIs(t, wrongPassword, ErrUnauthorized)
	require.ErrorIs(t, unknownEmail, ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestCredentialStore_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u, err := env.creds.CreateUser(ctx, "user@x.com", "password123")
	require.NoError(t, err)

	err = env.creds.ChangePassword(ctx, u.ID, "wrong-password", "newpassword1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, env.creds.ChangePassword(ctx, u.ID, "password123", "newpassword1"))

	_, err = env.creds.Authenticate(ctx, "user@x.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.creds.Authenticate(ctx, "user@x.com", "newpassword1")
	assert.NoError(t, err)
}

func TestCredentialStore_FindOrCreateBySocialIdentityIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.creds.FindOrCreateBySocialIdentity(ctx, "42", "yandex")
	require.NoError(t, err)
	second, err := env.creds.FindOrCreateBySocialIdentity(ctx, "42", "yandex")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Email, second.Email)
	assert.Contains(t, first.Email, "@yandex.com")
	assert.True(t, second.HasRole(model.RoleUser))

	n, err := env.store.Social.CountForUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	other, err := env.creds.FindOrCreateBySocialIdentity(ctx, "42", "vk")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = env.creds.FindOrCreateBySocialIdentity(ctx, "", "vk")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCredentialStore_GetUserNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.creds.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
