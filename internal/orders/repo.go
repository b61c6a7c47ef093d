package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	"github.com/villaworks/villaserve-backend/pkg/pagination"
)

// Repository reads ordered cart history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListOrderedByUser returns the user's ordered carts newest first, keyed by
// (created_at, id). The caller passes limit+1 to detect the next page.
func (r *Repository) ListOrderedByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.CartRecord, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusOrdered).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.CartRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
