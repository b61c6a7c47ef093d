package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	"github.com/villaworks/villaserve-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cartRecords := `
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'in_cart',
  item_total TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  food_id TEXT NOT NULL,
  name TEXT NOT NULL,
  portion TEXT,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(cartRecords).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func createOrderedCart(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time, lines int) *models.CartRecord {
	t.Helper()

	record := &models.CartRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    enums.CartStatusOrdered,
		ItemTotal: decimal.NewFromInt(int64(lines) * 5),
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(record).Error)
	for i := 0; i < lines; i++ {
		item := &models.CartItem{
			ID:        uuid.New(),
			CartID:    record.ID,
			FoodID:    uuid.New(),
			Name:      "Item",
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(5),
			Position:  i,
		}
		require.NoError(t, db.Create(item).Error)
	}
	return record
}

func TestListOrderedByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	oldest := createOrderedCart(t, db, userID, base, 1)
	newest := createOrderedCart(t, db, userID, base.Add(10*time.Minute), 2)

	// an in-cart record must not appear in history
	inCart := &models.CartRecord{ID: uuid.New(), UserID: userID, Status: enums.CartStatusInCart, ItemTotal: decimal.Zero}
	require.NoError(t, db.Create(inCart).Error)

	records, err := repo.ListOrderedByUser(ctx, userID, 10, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newest.ID, records[0].ID)
	assert.Equal(t, oldest.ID, records[1].ID)
	assert.Len(t, records[0].Items, 2)
}

func TestListOrderedByUserCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	oldest := createOrderedCart(t, db, userID, base, 1)
	newest := createOrderedCart(t, db, userID, base.Add(10*time.Minute), 1)

	cursor := &pagination.Cursor{CreatedAt: newest.CreatedAt, ID: newest.ID}
	records, err := repo.ListOrderedByUser(ctx, userID, 10, cursor)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, oldest.ID, records[0].ID)
}
