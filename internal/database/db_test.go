package database

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"mysql", MySQL, false},
		{"Postgres", Postgres, false},
		{"pgx", Postgres, false},
		{"sqlite3", SQLite, false},
		{" sqlite ", SQLite, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM users WHERE email = ? AND active = ?"
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT id FROM users WHERE email = $1 AND active = $2", Postgres.Rebind(q))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, SQLite.IsUniqueViolation(nil))
	assert.True(t, MySQL.IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, MySQL.IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, Postgres.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, SQLite.IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, SQLite.IsUniqueViolation(errors.New("no such table")))
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, SQLite))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, db, SQLite))

	for _, table := range []string{"users", "roles", "roles_users", "social_accounts", "sessions"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}
