package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return NewStore(db, database.SQLite)
}

func mustUser(t *testing.T, email string) model.User {
	t.Helper()
	u, err := model.NewUser(email, "password123", bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "user@x.com")

	require.NoError(t, s.Users.Create(ctx, u))

	got, err := s.Users.GetByEmail(ctx, "USER@x.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.True(t, got.Active)
	assert.Empty(t, got.Roles)

	byID, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@x.com", byID.Email)

	_, err = s.Users.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, mustUser(t, "dup@x.com")))
	err := s.Users.Create(ctx, mustUser(t, "dup@x.com"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "pw@x.com")
	require.NoError(t, s.Users.Create(ctx, u))

	require.NoError(t, s.Users.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestRoleRepo(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	editor := model.NewRole("editor", "can edit")
	require.NoError(t, s.Roles.Create(ctx, editor))
	require.NoError(t, s.Roles.Create(ctx, model.NewRole("admin", "")))
	assert.ErrorIs(t, s.Roles.Create(ctx, model.NewRole("editor", "")), ErrConflict)

	got, err := s.Roles.GetByName(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, editor, got)

	admin, err := s.Roles.GetByName(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, admin.Description)

	_, err = s.Roles.GetByName(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.Roles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "admin", all[0].Name)

	editor.Description = "edits things"
	require.NoError(t, s.Roles.Update(ctx, editor))
	got, err = s.Roles.GetByName(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, "edits things", got.Description)

	editor.Name = "admin"
	assert.ErrorIs(t, s.Roles.Update(ctx, editor), ErrConflict)
}

func TestRoleRepo_UserAssociation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "member@x.com")
	require.NoError(t, s.Users.Create(ctx, u))
	role := model.NewRole("subscriber", "")
	require.NoError(t, s.Roles.Create(ctx, role))

	require.NoError(t, s.Roles.AddToUser(ctx, u.ID, role.ID))
	// granting twice neither errors nor duplicates
	require.NoError(t, s.Roles.AddToUser(ctx, u.ID, role.ID))

	roles, err := s.Roles.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "subscriber", roles[0].Name)

	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"subscriber"}, got.RoleNames())

	require.NoError(t, s.Roles.RemoveFromUser(ctx, u.ID, role.ID))
	require.NoError(t, s.Roles.RemoveFromUser(ctx, u.ID, role.ID))
	roles, err = s.Roles.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestRoleRepo_DeleteCascadesAssociation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "cascade@x.com")
	require.NoError(t, s.Users.Create(ctx, u))
	role := model.NewRole("temp", "")
	require.NoError(t, s.Roles.Create(ctx, role))
	require.NoError(t, s.Roles.AddToUser(ctx, u.ID, role.ID))

	require.NoError(t, s.Roles.Delete(ctx, role.ID))

	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err, "user survives role deletion")
	assert.Empty(t, got.Roles)
}

func TestSocialRepo(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "social@x.com")
	require.NoError(t, s.Users.Create(ctx, u))

	acc := model.NewSocialAccount(u.ID, "12345", "yandex")
	require.NoError(t, s.Social.Create(ctx, acc))
	assert.ErrorIs(t, s.Social.Create(ctx, model.NewSocialAccount(u.ID, "12345", "yandex")), ErrConflict)
	// same external id at another provider is a different identity
	require.NoError(t, s.Social.Create(ctx, model.NewSocialAccount(u.ID, "12345", "vk")))

	got, err := s.Social.GetByIdentity(ctx, "12345", "yandex")
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	_, err = s.Social.GetByIdentity(ctx, "999", "yandex")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Social.CountForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSessionRepo_ListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "sessions@x.com")
	require.NoError(t, s.Users.Create(ctx, u))

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Sessions.Create(ctx, model.NewSession(u.ID, "ua", base.Add(time.Duration(i)*time.Minute))))
	}

	page, err := s.Sessions.ListByUser(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, base.Add(4*time.Minute).Equal(page[0].EventDate))
	assert.True(t, base.Add(3*time.Minute).Equal(page[1].EventDate))
	assert.Equal(t, model.DeviceOther, page[0].DeviceType)

	last, err := s.Sessions.ListByUser(ctx, u.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.True(t, base.Equal(last[0].EventDate))

	none, err := s.Sessions.ListByUser(ctx, "someone-else", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_InTxRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "atomic@x.com")
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx Repos) error {
		if err := tx.Users.Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InTxCommits(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := mustUser(t, "commit@x.com")
	role := model.NewRole(model.RoleUser, "")

	err := s.InTx(ctx, func(tx Repos) error {
		if err := tx.Users.Create(ctx, u); err != nil {
			return err
		}
		if err := tx.Roles.Create(ctx, role); err != nil {
			return err
		}
		return tx.Roles.AddToUser(ctx, u.ID, role.ID)
	})
	require.NoError(t, err)

	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, got.RoleNames())
}
