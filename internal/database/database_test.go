package database_test

import (
	"fmt"
	"testing"

	"pasar/internal/database"
	"pasar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("mysql", "root@/pasar", zap.NewNop())
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestOpenInMemory_Isolated(t *testing.T) {
	first, err := database.OpenInMemory()
	require.NoError(t, err)
	second, err := database.OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, first.Create(&models.Category{Name: "Books"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)

	for _, table := range []string{"users", "categories", "listings", "orders", "order_items", "reviews"} {
		assert.True(t, first.Migrator().HasTable(table), table)
	}
}

func TestOpen_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	logs.TakeAll()

	var user models.User
	err = db.First(&user, 404).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "missing rows are not logged")

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	entries := logs.FilterLoggerName("gorm").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "no_such_table")
}
