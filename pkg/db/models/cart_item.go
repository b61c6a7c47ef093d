package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/pkg/types"
)

// CartItem is one line of a cart. UnitPrice is snapshotted when the line is
// added and never re-derived from the catalog. Position preserves the order
// lines entered the cart across full item rewrites.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	FoodID    uuid.UUID       `gorm:"column:food_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Portion   types.Portion   `gorm:"column:portion;type:text"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
