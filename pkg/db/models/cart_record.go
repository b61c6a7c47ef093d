package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/pkg/enums"
)

// CartRecord holds one user's cart. At most one record per user carries the
// in_cart status; ordered records are immutable history.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'in_cart'"`
	ItemTotal decimal.Decimal  `gorm:"column:item_total;type:numeric(12,2);not null;default:0"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
