package gradestore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/repograde/schema"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
	return err == nil && name == table
}

func TestMigrateUpAndDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, "grade_batches"))
	assert.True(t, tableExists(t, dbPath, "grade_records"))

	// Up again is a no-op
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, "grade_batches"))
	assert.False(t, tableExists(t, dbPath, "grade_records"))
}

func TestMigrateToVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, "grade_batches"))
	assert.False(t, tableExists(t, dbPath, "grade_records"))
}

func TestMigrateNoneBackend(t *testing.T) {
	assert.Error(t, Migrate(schema.NoneBackend, "", -1))
}
