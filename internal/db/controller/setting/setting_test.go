package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.GlobalSetting{}, &models.UserSetting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(setupTestDB(t))
	require.NoError(t, err)

	return store
}

func TestNewStoreNilDB(t *testing.T) {
	store, err := NewStore(nil)
	require.ErrorIs(t, err, ErrDBNil)
	assert.Nil(t, store)
}

func TestReadAllEmpty(t *testing.T) {
	store := setupStore(t)

	rows, err := store.ReadAll(settings.ScopeGlobal, settings.SystemOwnerID)
	require.NoError(t, err)
	assert.Empty(t, rows, "no overrides means all defaults, not an error")
}

func TestReadAllUnknownScope(t *testing.T) {
	store := setupStore(t)

	_, err := store.ReadAll(settings.Scope("tenant"), 1)
	require.ErrorIs(t, err, settings.ErrUnknownScope)
}

func TestBulkUpsertReplaces(t *testing.T) {
	store := setupStore(t)

	first := []settings.Override{
		{Category: "security", Key: "sessionTimeout", Value: "120", Type: settings.TypeNumber},
		{Category: "general", Key: "siteName", Value: "Staging", Type: settings.TypeString},
	}
	require.NoError(t, store.BulkUpsert(settings.ScopeGlobal, settings.SystemOwnerID, first))

	// same key again: the row is replaced, never appended
	second := []settings.Override{
		{Category: "security", Key: "sessionTimeout", Value: "240", Type: settings.TypeNumber},
	}
	require.NoError(t, store.BulkUpsert(settings.ScopeGlobal, settings.SystemOwnerID, second))

	rows, err := store.ReadAll(settings.ScopeGlobal, settings.SystemOwnerID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byKey := make(map[string]settings.Override, len(rows))
	for _, row := range rows {
		byKey[row.Category+"."+row.Key] = row
	}

	assert.Equal(t, "240", byKey["security.sessionTimeout"].Value)
	assert.Equal(t, "Staging", byKey["general.siteName"].Value)
}

func TestBulkUpsertOwnerIsolation(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.BulkUpsert(settings.ScopeUser, 1, []settings.Override{
		{Category: "appearance", Key: "theme", Value: "dark", Type: settings.TypeString},
	}))
	require.NoError(t, store.BulkUpsert(settings.ScopeUser, 2, []settings.Override{
		{Category: "appearance", Key: "theme", Value: "light", Type: settings.TypeString},
	}))

	rowsOne, err := store.ReadAll(settings.ScopeUser, 1)
	require.NoError(t, err)
	require.Len(t, rowsOne, 1)
	assert.Equal(t, "dark", rowsOne[0].Value)

	rowsTwo, err := store.ReadAll(settings.ScopeUser, 2)
	require.NoError(t, err)
	require.Len(t, rowsTwo, 1)
	assert.Equal(t, "light", rowsTwo[0].Value)
}

func TestBulkUpsertSameKeyAcrossOwners(t *testing.T) {
	store := setupStore(t)

	// the same (category, key) may exist once per owner
	for owner := uint64(1); owner <= 3; owner++ {
		require.NoError(t, store.BulkUpsert(settings.ScopeUser, owner, []settings.Override{
			{Category: "notifications", Key: "emailDigest", Value: "false", Type: settings.TypeBoolean},
		}))
	}

	var count int64
	require.NoError(t, store.db.Model(&models.UserSetting{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestBulkUpsertEmptyBatch(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.BulkUpsert(settings.ScopeGlobal, settings.SystemOwnerID, nil))
}

func TestBulkUpsertUnknownScope(t *testing.T) {
	store := setupStore(t)

	err := store.BulkUpsert(settings.Scope("tenant"), 1, []settings.Override{
		{Category: "x", Key: "y", Value: "z", Type: settings.TypeString},
	})
	require.ErrorIs(t, err, settings.ErrUnknownScope)
}

func TestBulkUpsertKeepsUnknownDefinitions(t *testing.T) {
	store := setupStore(t)

	// rows without a matching definition are accepted for storage; dropping
	// them is the resolution engine's job
	require.NoError(t, store.BulkUpsert(settings.ScopeGlobal, settings.SystemOwnerID, []settings.Override{
		{Category: "legacy", Key: "renamedKey", Value: "whatever", Type: settings.TypeString},
	}))

	rows, err := store.ReadAll(settings.ScopeGlobal, settings.SystemOwnerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "legacy", rows[0].Category)
}
