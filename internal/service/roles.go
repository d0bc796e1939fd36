package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// RoleRegistry manages named roles and who holds them.  It does not check
// the caller's privileges; routes do that.
type RoleRegistry struct {
	store *repository.Store
}

func NewRoleRegistry(store *repository.Store) *RoleRegistry {
	return &RoleRegistry{store: store}
}

// RoleUpdate carries the fields to change; nil leaves a field as is.
type RoleUpdate struct {
	Name        *string
	Description *string
}

func findOrCreateRole(ctx context.Context, repos repository.Repos, name string) (model.Role, error) {
	role, err := repos.Roles.GetByName(ctx, name)
	if !errors.Is(err, repository.ErrNotFound) {
		return role, err
	}
	role = model.NewRole(name, "")
	if err := repos.Roles.Create(ctx, role); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func roleNotFound(name string) error {
	return fmt.Errorf("%w: role %s", ErrNotFound, name)
}

// Find returns the role called name.
func (r *RoleRegistry) Find(ctx context.Context, name string) (model.Role, error) {
	role, err := r.store.Roles.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Role{}, roleNotFound(name)
	}
	return role, err
}

// FindOrCreate returns the role called name, creating it if needed.
func (r *RoleRegistry) FindOrCreate(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		var err error
		role, err = findOrCreateRole(ctx, tx, name)
		return err
	})
	if errors.Is(err, repository.ErrConflict) {
		// created concurrently
		return r.Find(ctx, name)
	}
	return role, err
}

// Create adds a new role.  A taken name yields ErrConflict.
func (r *RoleRegistry) Create(ctx context.Context, name, description string) (model.Role, error) {
	role := model.NewRole(name, description)
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		return tx.Roles.Create(ctx, role)
	})
	if errors.Is(err, repository.ErrConflict) {
		return model.Role{}, fmt.Errorf("%w: role %s already exists", ErrConflict, name)
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// Update renames and/or redescribes the role called name.
func (r *RoleRegistry) Update(ctx context.Context, name string, upd RoleUpdate) (model.Role, error) {
	var role model.Role
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		var err error
		role, err = tx.Roles.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			role.Name = *upd.Name
		}
		if upd.Description != nil {
			role.Description = *upd.Description
		}
		return tx.Roles.Update(ctx, role)
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.Role{}, roleNotFound(name)
	case errors.Is(err, repository.ErrConflict):
		return model.Role{}, fmt.Errorf("%w: role %s already exists", ErrConflict, role.Name)
	case err != nil:
		return model.Role{}, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

// Delete removes the role called name.  Users keep their other roles.
func (r *RoleRegistry) Delete(ctx context.Context, name string) error {
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		role, err := tx.Roles.GetByName(ctx, name)
		if err != nil {
			return err
		}
		return tx.Roles.Delete(ctx, role.ID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return roleNotFound(name)
	}
	return err
}

// List returns every role ordered by name.
func (r *RoleRegistry) List(ctx context.Context) ([]model.Role, error) {
	return r.store.Roles.List(ctx)
}

// RolesOfUser lists the roles held by userID.
func (r *RoleRegistry) RolesOfUser(ctx context.Context, userID string) ([]model.Role, error) {
	if _, err := r.store.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	return r.store.Roles.ListForUser(ctx, userID)
}

// AddRoleToUser grants an existing role.  Granting a held role is a no-op.
func (r *RoleRegistry) AddRoleToUser(ctx context.Context, userID, roleName string) error {
	return r.changeMembership(ctx, userID, roleName, false, func(tx repository.Repos, roleID string) error {
		return tx.Roles.AddToUser(ctx, userID, roleID)
	})
}

// Subscribe grants the `subscriber` role, creating it on first use.
func (r *RoleRegistry) Subscribe(ctx context.Context, userID string) error {
	return r.changeMembership(ctx, userID, model.RoleSubscriber, true, func(tx repository.Repos, roleID string) error {
		return tx.Roles.AddToUser(ctx, userID, roleID)
	})
}

// RemoveRoleFromUser revokes a role.  Revoking a role not held is a no-op.
func (r *RoleRegistry) RemoveRoleFromUser(ctx context.Context, userID, roleName string) error {
	return r.changeMembership(ctx, userID, roleName, false, func(tx repository.Repos, roleID string) error {
		return tx.Roles.RemoveFromUser(ctx, userID, roleID)
	})
}

func (r *RoleRegistry) changeMembership(ctx context.Context, userID, roleName string, create bool, apply func(repository.Repos, string) error) error {
	var missingUser bool
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		if _, err := tx.Users.GetByID(ctx, userID); err != nil {
			missingUser = errors.Is(err, repository.ErrNotFound)
			return err
		}
		var (
			role model.Role
			err  error
		)
		if create {
			role, err = findOrCreateRole(ctx, tx, roleName)
		} else {
			role, err = tx.Roles.GetByName(ctx, roleName)
		}
		if err != nil {
			return err
		}
		return apply(tx, role.ID)
	})
	switch {
	case missingUser:
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	case errors.Is(err, repository.ErrNotFound):
		return roleNotFound(roleName)
	}
	return err
}
