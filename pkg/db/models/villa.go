package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Villa is a managed property containing rooms.
type Villa struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Address   string         `gorm:"column:address;not null"`
	Amenities pq.StringArray `gorm:"column:amenities;type:text[]"`
	Rooms     []Room         `gorm:"foreignKey:VillaID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
