package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/utils"
)

// User represents an application user record as stored in the
// `users` table.  Roles are loaded from the roles_users association
// and are not a column of the table itself.  Email is kept normalized
// (lower-case) and the plain password is never kept, only its bcrypt hash.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Active       bool      // users.active
	CreatedAt    time.Time // users.created_at
	Roles        []Role    // roles_users join
}

// ErrEmptyPassword is returned when a password is blank.
var ErrEmptyPassword = errors.New("password must not be empty")

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser builds an active user with a fresh id.  The password is hashed
// here so a User value never carries the plain text.
func NewUser(email, rawPassword string, cost int) (User, error) {
	u := User{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(email),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.SetPassword(rawPassword, cost); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with the hash of raw.
func (u *User) SetPassword(raw string, cost int) error {
	if raw == "" {
		return ErrEmptyPassword
	}
	hash, err := utils.HashPassword(raw, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u User) CheckPassword(raw string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return utils.VerifyPassword(u.PasswordHash, raw)
}

// RoleNames returns the names of the held roles in load order.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user holds the named role.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
