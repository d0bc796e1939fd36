package model

import "github.com/google/uuid"

// Built-in role names.
const (
	RoleUser       = "user"       // granted on registration
	RoleSubscriber = "subscriber" // granted by an admin
	RoleAdmin      = "admin"      // passes every role check
)

// Role represents a row in the `roles` table.  Names are unique;
// Description is empty when the column is NULL.
type Role struct {
	ID          string // roles.id
	Name        string // roles.name
	Description string // roles.description (nullable)
}

// NewRole returns a role with a fresh id.
func NewRole(name, description string) Role {
	return Role{ID: uuid.NewString(), Name: name, Description: description}
}
