package equipment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
)

// Repository exposes equipment persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, item *models.Equipment) (*models.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var item models.Equipment
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *Repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Equipment, error) {
	var items []models.Equipment
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("kind ASC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) UpdateState(ctx context.Context, id uuid.UUID, state enums.EquipmentState) error {
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		UpdateColumn("state", state).Error
}
