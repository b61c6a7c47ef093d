package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/villaworks/villaserve-backend/pkg/enums"
)

// Equipment is a single toggleable device installed in a room.
type Equipment struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID    uuid.UUID            `gorm:"column:room_id;type:uuid;not null"`
	Kind      enums.EquipmentKind  `gorm:"column:kind;type:text;not null"`
	Name      string               `gorm:"column:name;not null"`
	State     enums.EquipmentState `gorm:"column:state;type:text;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
