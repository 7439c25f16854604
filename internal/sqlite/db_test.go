package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"users",
		"activity_log",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsAreRerunnable(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestUsersTable verifies the role constraint
func TestUsersTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO users (id, username, role) VALUES (?, ?, ?)`, "u1", "alice", "admin")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO users (id, username, role) VALUES (?, ?, ?)`, "u2", "bob", "superuser")
	require.Error(t, err, "should fail with invalid role")

	_, err = db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, "u3", "alice")
	require.Error(t, err, "usernames are unique")
}

// TestActivityDefaults verifies column defaults for sparse rows
func TestActivityDefaults(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO activity_log (id, owner_id, type, description, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		"a1", "u1", "login", "Logged in", 1)
	require.NoError(t, err)

	var browser, country string
	err = db.QueryRowContext(ctx, `SELECT browser, country FROM activity_log WHERE id = ?`, "a1").Scan(&browser, &country)
	require.NoError(t, err)
	require.Equal(t, "Unknown", browser)
	require.Equal(t, "Unknown", country)
}
