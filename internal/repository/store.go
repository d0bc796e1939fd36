package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/auth-service/internal/database"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn couples a DBTX with the dialect used to rewrite its queries.
type conn struct {
	db      DBTX
	dialect database.Dialect
}

func (c conn) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.dialect.Rebind(q), args...)
}

func (c conn) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.dialect.Rebind(q), args...)
}

func (c conn) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.Rebind(q), args...)
}

// translate maps driver errors onto the package sentinels.
func (c conn) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case c.dialect.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

// Repos groups every repository bound to the same DBTX.
type Repos struct {
	Users    *UserRepo
	Roles    *RoleRepo
	Social   *SocialRepo
	Sessions *SessionRepo
}

func newRepos(c conn) Repos {
	return Repos{
		Users:    &UserRepo{conn: c},
		Roles:    &RoleRepo{conn: c},
		Social:   &SocialRepo{conn: c},
		Sessions: &SessionRepo{conn: c},
	}
}

// Store owns the connection pool.  Reads go through the embedded Repos;
// writes that must land together go through InTx.
type Store struct {
	Repos
	DB      *sql.DB
	Dialect database.Dialect
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{Repos: newRepos(conn{db: db, dialect: dialect}), DB: db, Dialect: dialect}
}

// InTx runs fn inside a transaction.  Nothing is visible to other
// callers until fn returns nil and the commit succeeds; any error rolls
// the whole unit back.
func (s *Store) InTx(ctx context.Context, fn func(tx Repos) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(newRepos(conn{db: tx, dialect: s.Dialect})); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
