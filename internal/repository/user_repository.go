package repository

import (
	"context"

	"github.com/iliyamo/auth-service/internal/model"
)

type UserRepo struct{ conn }

const userColumns = "id, email, password_hash, active, created_at"

// Create inserts u.  A taken email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.exec(ctx,
		"INSERT INTO users (id, email, password_hash, active, created_at) VALUES (?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, u.Active, u.CreatedAt.UTC())
	return r.translate(err)
}

// GetByEmail fetches a user by normalized email together with its roles.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=?", model.NormalizeEmail(email))
}

// GetByID fetches a user by id together with its roles.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=?", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (model.User, error) {
	var u model.User
	err := r.queryRow(ctx, q, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return model.User{}, r.translate(err)
	}
	roles, err := (&RoleRepo{conn: r.conn}).ListForUser(ctx, u.ID)
	if err != nil {
		return model.User{}, err
	}
	u.Roles = roles
	return u, nil
}

// UpdatePassword overwrites the stored hash of user id.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.exec(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return r.translate(err)
}
