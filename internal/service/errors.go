// Package service implements the authentication core: credential checks,
// the role registry, token issue/verify/revoke and the login history.
package service

import "errors"

// Domain errors.  Callers wrap them with context; handlers map them onto
// HTTP statuses with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")  // missing or wrong credentials
	ErrInvalidToken = errors.New("invalid token") // bad signature, expired, revoked or wrong kind
	ErrForbidden    = errors.New("forbidden")     // authenticated but lacking a role
	ErrConflict     = errors.New("conflict")      // uniqueness violation
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)
