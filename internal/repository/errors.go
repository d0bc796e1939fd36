// Package repository defines the SQL repositories of the service and the
// error types they share.  These sentinel values allow higher layers such
// as services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Services
// translate it into their own NotFound or Unauthorized errors.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update would violate a
// uniqueness constraint, such as registering an email twice or
// creating a role whose name is taken.
var ErrConflict = errors.New("conflict")
