package database_test

import (
	"testing"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(config.DriverSQLite, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	for _, column := range []string{"id", "name", "quantity", "price"} {
		assert.True(t, db.Migrator().HasColumn(&models.Product{}, column), column)
	}

	// Running the migration again must be harmless.
	assert.NoError(t, database.Migrate(db))
}

func TestOpenRejectsMemoryDriver(t *testing.T) {
	_, err := database.Open(config.DriverMemory, "", nil)
	assert.ErrorContains(t, err, "no SQL dialect")
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := database.OpenStore(&config.Config{DatabaseDriver: config.DriverMemory}, nil)
		require.NoError(t, err)
		assert.Nil(t, store.DB)
		assert.Nil(t, store.Users)
		assert.NotNil(t, store.Products)
		assert.NoError(t, store.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
		store, err := database.OpenStore(&config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDSN: dsn}, nil)
		require.NoError(t, err)
		assert.NotNil(t, store.DB)
		assert.NotNil(t, store.Users)
		assert.NotNil(t, store.Products)
		assert.NoError(t, store.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := database.OpenStore(&config.Config{DatabaseDriver: "oracle", DatabaseDSN: "dsn"}, nil)
		assert.Error(t, err)
	})
}
