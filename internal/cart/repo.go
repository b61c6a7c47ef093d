package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
)

// Repository is the gorm-backed CartRepository.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	return &Repository{db: tx}
}

func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusInCart).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Update persists the record's own columns. Items are managed separately via
// ReplaceItems so gorm's association writer never runs partial upserts.
func (r *Repository) Update(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	err := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":     record.Status,
			"item_total": record.ItemTotal,
		}).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ReplaceItems rewrites the cart's lines wholesale. Callers run this inside a
// transaction together with the Update that records the new total.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CartID = cartID
	}
	return db.Create(&items).Error
}
