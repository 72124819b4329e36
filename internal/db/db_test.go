package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "test.db")

	database, err := Init(DriverSQLite, path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, RunMigrations(database.DB, DriverSQLite))

	var tables []string
	err = database.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'profiles', 'goals', 'transactions') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"goals", "profiles", "transactions", "users"}, tables)

	require.NoError(t, MigrateDown(database.DB, DriverSQLite))

	var count int
	err = database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'transactions'`)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", dialect(DriverSQLite))
	assert.Equal(t, "postgres", dialect(DriverPostgres))
	assert.Equal(t, "mysql", dialect("mysql"))
}
