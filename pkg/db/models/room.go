package models

import (
	"time"

	"github.com/google/uuid"
)

// Room belongs to a villa and hosts the toggleable equipment.
type Room struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VillaID   uuid.UUID   `gorm:"column:villa_id;type:uuid;not null"`
	Name      string      `gorm:"column:name;not null"`
	Floor     int         `gorm:"column:floor;not null;default:0"`
	Equipment []Equipment `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
