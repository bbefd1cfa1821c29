package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habedi/showcase/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitDB tests the initialization of the database.
// It points the database at a temporary directory and checks the file is created.
func TestInitDB(t *testing.T) {
	tempDir := t.TempDir()
	db.Path = filepath.Join(tempDir, ".showcase/catalogue.db")
	err := db.InitDB()
	require.NoError(t, err, "InitDB should not return an error")

	_, statErr := os.Stat(db.Path)
	assert.NoError(t, statErr, "Database file should exist")
	assert.True(t, db.GetDB().Migrator().HasTable("entries"), "entries table should be migrated")

	closeErr := db.CloseDB()
	assert.NoError(t, closeErr, "CloseDB should not return an error")
}

func TestCloseDB_NotInitialized(t *testing.T) {
	saved := db.Db
	db.Db = nil
	t.Cleanup(func() { db.Db = saved })

	assert.ErrorIs(t, db.CloseDB(), db.ErrNotInitialized)
}
