package villas

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
)

// Repository exposes villa and room persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, villa *models.Villa) (*models.Villa, error) {
	if err := r.db.WithContext(ctx).Create(villa).Error; err != nil {
		return nil, err
	}
	return villa, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Villa, error) {
	var villa models.Villa
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("floor ASC, name ASC")
		}).
		First(&villa, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &villa, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Villa, error) {
	var villas []models.Villa
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&villas).Error; err != nil {
		return nil, err
	}
	return villas, nil
}

func (r *Repository) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *Repository) FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
