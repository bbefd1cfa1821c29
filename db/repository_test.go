package db_test

import (
	"context"
	"testing"

	"github.com/habedi/showcase/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB sets up an in-memory SQLite database for testing purposes.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// every new connection to :memory: would be a fresh, empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func TestEntryRepositoryBasicCRUD(t *testing.T) {
	repo := db.NewEntryRepository(setupTestDB(t))
	ctx := context.Background()

	// Empty at first
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	// ReplaceAll
	require.NoError(t, repo.ReplaceAll(ctx, []db.EntryRecord{
		{ID: "b", Position: 1, Title: "Second"},
		{ID: "a", Position: 0, Title: "First", Description: "one"},
	}))

	// List keeps catalogue order
	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	// GetByID
	rec, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "one", rec.Description)

	rec, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Count
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Clear
	require.NoError(t, repo.Clear(ctx))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 0)
}

func TestEntryRepository_ReplaceAllDropsPreviousRows(t *testing.T) {
	repo := db.NewEntryRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []db.EntryRecord{{ID: "old", Position: 0, Title: "Old"}}))
	require.NoError(t, repo.ReplaceAll(ctx, []db.EntryRecord{{ID: "new", Position: 0, Title: "New"}}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].ID)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEntryRepository_NilConnection(t *testing.T) {
	repo := db.NewEntryRepository(nil)
	ctx := context.Background()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, db.ErrNotInitialized)
	assert.ErrorIs(t, repo.ReplaceAll(ctx, nil), db.ErrNotInitialized)
	assert.ErrorIs(t, repo.Clear(ctx), db.ErrNotInitialized)
	_, err = repo.Count(ctx)
	assert.ErrorIs(t, err, db.ErrNotInitialized)
	_, err = repo.Populated(ctx)
	assert.ErrorIs(t, err, db.ErrNotInitialized)
}

func TestEntryRepository_PopulatedSurvivesEmptyCatalogue(t *testing.T) {
	repo := db.NewEntryRepository(setupTestDB(t))
	ctx := context.Background()

	populated, err := repo.Populated(ctx)
	require.NoError(t, err)
	assert.False(t, populated, "a fresh cache was never filled")

	require.NoError(t, repo.ReplaceAll(ctx, []db.EntryRecord{{ID: "a", Title: "A"}}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))
	populated, err = repo.Populated(ctx)
	require.NoError(t, err)
	assert.True(t, populated, "an empty catalogue is still a stored catalogue")

	require.NoError(t, repo.Clear(ctx))
	populated, err = repo.Populated(ctx)
	require.NoError(t, err)
	assert.False(t, populated)
}
