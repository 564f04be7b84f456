package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestInit_RejectsUnknownScheme(t *testing.T) {
	_, err := Init("mysql://localhost/db")
	assert.ErrorContains(t, err, "unsupported database URL scheme")

	_, err = Init("")
	assert.Error(t, err)
}

func TestEnsureTimezoneUTC(t *testing.T) {
	dsn, err := ensureTimezoneUTC("postgres://u:p@localhost:5432/app?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, dsn, "TimeZone=UTC")
	assert.Contains(t, dsn, "sslmode=disable")

	dsn, err = ensureTimezoneUTC("postgres://localhost/app?TimeZone=Asia%2FKolkata")
	require.NoError(t, err)
	assert.Contains(t, dsn, "TimeZone=Asia%2FKolkata")
}

func TestMigrateAndSeed_SQLite(t *testing.T) {
	db, err := Init(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	require.NoError(t, SeedDevData(db))
	// second run is a no-op
	require.NoError(t, SeedDevData(db))

	var users, products, drafts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Draft{}).Count(&drafts).Error)

	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(2), products)
	assert.Equal(t, int64(1), drafts)
}
