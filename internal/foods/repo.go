package foods

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
)

// Repository exposes food catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) FoodRepository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, food *models.Food) (*models.Food, error) {
	if err := r.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).First(&food, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &food, nil
}

func (r *Repository) List(ctx context.Context, category string, availableOnly bool) ([]models.Food, error) {
	query := r.db.WithContext(ctx).Order("category ASC, code ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var foods []models.Food
	if err := query.Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// MaxCodeNumber scans existing codes under the prefix and returns the highest
// numeric suffix. Codes that do not parse as "<prefix>-<n>" are skipped.
func (r *Repository) MaxCodeNumber(ctx context.Context, prefix string) (int, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Food{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, code := range codes {
		suffix := strings.TrimPrefix(code, prefix+"-")
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Food, error) {
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Food{}).
			Where("id = ?", id).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the catalog row. Cart lines keep their snapshots.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Food{}, "id = ?", id).Error
}
