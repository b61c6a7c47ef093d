package foods

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
)

func setupFoodsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	foods := `
CREATE TABLE IF NOT EXISTS foods (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(foods).Error)
	return db
}

func createFood(t *testing.T, db *gorm.DB, code, category string, available bool) *models.Food {
	t.Helper()

	food := &models.Food{
		ID:          uuid.New(),
		Code:        code,
		Name:        "Item " + code,
		Category:    category,
		Price:       decimal.RequireFromString("5.00"),
		IsAvailable: available,
	}
	require.NoError(t, db.Create(food).Error)
	return food
}

func TestRepositoryMaxCodeNumber(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// unique category per test run keeps the shared db honest
	category := "Cat" + uuid.NewString()[:8]
	prefix := "P" + uuid.NewString()[:6]

	max, err := repo.MaxCodeNumber(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	createFood(t, db, prefix+"-2", category, true)
	createFood(t, db, prefix+"-10", category, true)
	createFood(t, db, prefix+"-junk", category, true)

	max, err = repo.MaxCodeNumber(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, 10, max)
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := "Cat" + uuid.NewString()[:8]
	prefix := "Q" + uuid.NewString()[:6]
	createFood(t, db, prefix+"-1", category, true)
	createFood(t, db, prefix+"-2", category, false)

	all, err := repo.List(ctx, category, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := repo.List(ctx, category, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.True(t, available[0].IsAvailable)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	food := createFood(t, db, "R"+uuid.NewString()[:6]+"-1", "Cat"+uuid.NewString()[:8], true)
	require.NoError(t, repo.Delete(ctx, food.ID))

	got, err := repo.GetByID(ctx, food.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
