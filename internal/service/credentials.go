package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/utils"
)

// CredentialStore owns users, their password hashes, their role
// assignments and their social identities.  Every mutation runs in one
// transaction and is committed explicitly.
type CredentialStore struct {
	store *repository.Store
	cost  int
	// compared against when the email is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

// NewCredentialStore returns a store hashing passwords with the given
// bcrypt cost.
func NewCredentialStore(store *repository.Store, cost int) (*CredentialStore, error) {
	dummy, err := utils.HashPassword("dummy-password", cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &CredentialStore{store: store, cost: cost, dummyHash: dummy}, nil
}

// Authenticate returns the user owning email if password matches.  Unknown
// email, wrong password and inactive account all yield ErrUnauthorized.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.store.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.VerifyPassword(s.dummyHash, password)
		return model.User{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	if !u.CheckPassword(password) || !u.Active {
		return model.User{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return u, nil
}

// CreateUser registers email with password.  The user gets the default
// `user` role plus any extra roles, created on demand, in the same
// transaction as the user row.
func (s *CredentialStore) CreateUser(ctx context.Context, email, password string, extraRoles ...string) (model.User, error) {
	u, err := model.NewUser(email, password, s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	err = s.store.InTx(ctx, func(tx repository.Repos) error {
		return createWithRoles(ctx, tx, &u, append([]string{model.RoleUser}, extraRoles...))
	})
	if errors.Is(err, repository.ErrConflict) {
		return model.User{}, fmt.Errorf("%w: email %s is already registered", ErrConflict, u.Email)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func createWithRoles(ctx context.Context, tx repository.Repos, u *model.User, roles []string) error {
	if err := tx.Users.Create(ctx, *u); err != nil {
		return err
	}
	for _, name := range roles {
		role, err := findOrCreateRole(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("role %s: %w", name, err)
		}
		if err := tx.Roles.AddToUser(ctx, u.ID, role.ID); err != nil {
			return err
		}
		if !u.HasRole(role.Name) {
			u.Roles = append(u.Roles, role)
		}
	}
	return nil
}

// ChangePassword re-checks oldPassword before storing newPassword.
func (s *CredentialStore) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.store.InTx(ctx, func(tx repository.Repos) error {
		u, err := tx.Users.GetByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		if err != nil {
			return err
		}
		if !u.CheckPassword(oldPassword) {
			return fmt.Errorf("%w: wrong password", ErrUnauthorized)
		}
		if err := u.SetPassword(newPassword, s.cost); err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return tx.Users.UpdatePassword(ctx, u.ID, u.PasswordHash)
	})
}

// FindOrCreateBySocialIdentity returns the user linked to
// (socialID, provider), provisioning one with a random email and password
// on first sight.
func (s *CredentialStore) FindOrCreateBySocialIdentity(ctx context.Context, socialID, provider string) (model.User, error) {
	if socialID == "" || provider == "" {
		return model.User{}, fmt.Errorf("%w: empty social identity", ErrBadRequest)
	}
	u, err := s.userForIdentity(ctx, socialID, provider)
	if !errors.Is(err, repository.ErrNotFound) {
		return u, err
	}

	email, err := utils.RandomEmail()
	if err != nil {
		return model.User{}, err
	}
	password, err := utils.RandomPassword()
	if err != nil {
		return model.User{}, err
	}
	nu, err := model.NewUser(email, password, s.cost)
	if err != nil {
		return model.User{}, err
	}
	err = s.store.InTx(ctx, func(tx repository.Repos) error {
		if err := createWithRoles(ctx, tx, &nu, []string{model.RoleUser}); err != nil {
			return err
		}
		return tx.Social.Create(ctx, model.NewSocialAccount(nu.ID, socialID, provider))
	})
	if errors.Is(err, repository.ErrConflict) {
		// lost a race with a concurrent first login of the same identity
		return s.userForIdentity(ctx, socialID, provider)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("provision social user: %w", err)
	}
	return nu, nil
}

func (s *CredentialStore) userForIdentity(ctx context.Context, socialID, provider string) (model.User, error) {
	acc, err := s.store.Social.GetByIdentity(ctx, socialID, provider)
	if err != nil {
		return model.User{}, err
	}
	return s.store.Users.GetByID(ctx, acc.UserID)
}

// GetUser loads a user with its current roles.
func (s *CredentialStore) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return u, err
}
