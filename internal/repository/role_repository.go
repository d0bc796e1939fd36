package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/auth-service/internal/model"
)

// RoleRepo manages the roles table and the roles_users association.
type RoleRepo struct{ conn }

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts r.  A taken name yields ErrConflict.
func (r *RoleRepo) Create(ctx context.Context, role model.Role) error {
	_, err := r.exec(ctx,
		"INSERT INTO roles (id, name, description) VALUES (?,?,?)",
		role.ID, role.Name, nullable(role.Description))
	return r.translate(err)
}

// GetByName returns the role called name or ErrNotFound.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var (
		role model.Role
		desc sql.NullString
	)
	err := r.queryRow(ctx, "SELECT id, name, description FROM roles WHERE name=?", name).
		Scan(&role.ID, &role.Name, &desc)
	if err != nil {
		return model.Role{}, r.translate(err)
	}
	role.Description = desc.String
	return role, nil
}

// List returns every role ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	return r.list(ctx, "SELECT id, name, description FROM roles ORDER BY name")
}

// ListForUser returns the roles held by userID ordered by name.
func (r *RoleRepo) ListForUser(ctx context.Context, userID string) ([]model.Role, error) {
	return r.list(ctx,
		`SELECT r.id, r.name, r.description
		   FROM roles r
		   JOIN roles_users ru ON ru.role_id = r.id
		  WHERE ru.user_id = ?
		  ORDER BY r.name`, userID)
}

func (r *RoleRepo) list(ctx context.Context, q string, args ...any) ([]model.Role, error) {
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Role{}
	for rows.Next() {
		var (
			role model.Role
			desc sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &desc); err != nil {
			return nil, err
		}
		role.Description = desc.String
		out = append(out, role)
	}
	return out, rows.Err()
}

// Update writes name and description of the role with role.ID.
func (r *RoleRepo) Update(ctx context.Context, role model.Role) error {
	_, err := r.exec(ctx, "UPDATE roles SET name=?, description=? WHERE id=?",
		role.Name, nullable(role.Description), role.ID)
	return r.translate(err)
}

// Delete removes the role; its user associations cascade.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.exec(ctx, "DELETE FROM roles WHERE id=?", id)
	return r.translate(err)
}

// HasUser reports whether userID holds roleID.
func (r *RoleRepo) HasUser(ctx context.Context, userID, roleID string) (bool, error) {
	var n int
	err := r.queryRow(ctx, "SELECT COUNT(*) FROM roles_users WHERE user_id=? AND role_id=?", userID, roleID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToUser grants roleID to userID.  Granting a held role is a no-op.
func (r *RoleRepo) AddToUser(ctx context.Context, userID, roleID string) error {
	held, err := r.HasUser(ctx, userID, roleID)
	if err != nil || held {
		return err
	}
	_, err = r.exec(ctx, "INSERT INTO roles_users (user_id, role_id) VALUES (?,?)", userID, roleID)
	return r.translate(err)
}

// RemoveFromUser revokes roleID from userID.  Revoking a role that is not
// held is a no-op.
func (r *RoleRepo) RemoveFromUser(ctx context.Context, userID, roleID string) error {
	_, err := r.exec(ctx, "DELETE FROM roles_users WHERE user_id=? AND role_id=?", userID, roleID)
	return r.translate(err)
}
